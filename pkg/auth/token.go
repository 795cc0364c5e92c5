// Package auth reads the session token issued by the Food Explorer API.
//
// The client never holds the signing secret, so tokens are decoded without
// verification. Whatever the claims say (the admin flag in particular) is a
// display hint only; the API re-checks every request it receives.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned for tokens that cannot be decoded.
var ErrMalformedToken = errors.New("auth: malformed token")

// Claims holds the typed JWT payload issued at sign-in.
type Claims struct {
	IsAdmin bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser(jwt.WithoutClaimsValidation())

// Decode extracts the claims of t without checking signature or expiry.
func Decode(t string) (*Claims, error) {
	if t == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedToken)
	}

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(t, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// IsAdmin is shorthand for Decode(t).IsAdmin.
func IsAdmin(t string) (bool, error) {
	claims, err := Decode(t)
	if err != nil {
		return false, err
	}
	return claims.IsAdmin, nil
}
