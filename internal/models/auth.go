package models

import "github.com/golang-jwt/jwt/v5"

// PrincipalKind tells how a caller authenticated.
type PrincipalKind string

const (
	// PrincipalAPIKey is a trusted backend (the chat bot workflow) using the shared key.
	PrincipalAPIKey PrincipalKind = "api_key"
	// PrincipalToken is a LIFF session bound to one LINE user.
	PrincipalToken PrincipalKind = "token"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	Kind   PrincipalKind
	UserID string
}

// CanActAs reports whether the caller may read or write userID's data.
func (p *Principal) CanActAs(userID string) bool {
	if p == nil || p.Kind == PrincipalAPIKey {
		return true
	}
	return p.UserID != "" && p.UserID == userID
}

// TokenClaims is the payload of a user scoped access token.
type TokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// IssuedToken is returned when a user scoped token is minted.
type IssuedToken struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	ExpiresIn int64  `json:"expires_in"`
}
