package tokenauth

import (
	"context"

	"github.com/ekstion/tokenauth/jwt"
)

// TokenType aliases [jwt.TokenType] for callers that only import the root.
type TokenType = jwt.TokenType

const (
	// TypeAccess marks short-lived API access tokens.
	TypeAccess = jwt.TypeAccess
	// TypeRefresh marks tokens exchangeable for a new access token.
	TypeRefresh = jwt.TypeRefresh
	// TypeVerification marks single-purpose email verification tokens.
	TypeVerification = jwt.TypeVerification
)

// Claims aliases [jwt.Claims].
type Claims = jwt.Claims

// TokenPair is the result of a successful refresh: a fresh access token and
// either a rotated or the original refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenAuthority composes the two independent validity checks a caller must
// perform: cryptographic verification and revocation lookup. They are not
// merged into one call on purpose — some flows (email verification) skip the
// revocation check, and Verify must stay pure and Redis-free.
type TokenAuthority interface {
	Verify(token string) (*Claims, error)
	IsRevoked(ctx context.Context, token string) (bool, error)
}
