package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens defines a public type used by authflow APIs.
//
// Tokens instances are the credential pair returned by /auth/login. The
// zero value means "not logged in".
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// IsZero reports whether no login has been stored.
func (t Tokens) IsZero() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// AccessExpiresAt returns the access token's exp claim. The signature is
// deliberately not verified: the client cannot hold the server's key, and
// a forged expiry only mis-schedules a refresh that the server will reject
// anyway.
func (t Tokens) AccessExpiresAt() (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(t.AccessToken, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, jwt.ErrTokenInvalidClaims
	}
	return claims.ExpiresAt.Time, nil
}

// NeedsRefresh reports whether the access token expires within leeway.
// Unparseable tokens always need refreshing.
func (t Tokens) NeedsRefresh(leeway time.Duration) bool {
	if t.IsZero() {
		return false
	}
	exp, err := t.AccessExpiresAt()
	if err != nil {
		return true
	}
	return time.Until(exp) <= leeway
}
