package testkit

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// Token signs a session token shaped like the API's. The client never checks
// the signature, so any key works.
func Token(t *testing.T, subject string, isAdmin bool) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     subject,
		"isAdmin": isAdmin,
	})
	s, err := tok.SignedString([]byte("testkit"))
	if err != nil {
		t.Fatalf("testkit: sign token: %v", err)
	}
	return s
}
