package models

// User is the subset of the account the client keeps between runs.
type User struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Identity is who is signed in. User and Token are set together or not at all.
type Identity struct {
	User    *User
	Token   string
	IsAdmin bool
}

// Valid reports whether the identity is a complete signed-in session.
func (i Identity) Valid() bool {
	return i.User != nil && i.Token != ""
}

// SignedOut is the zero identity.
var SignedOut = Identity{}
