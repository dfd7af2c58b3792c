package flows

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ekstion/tokenauth/jwt"
)

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	Verify      func(string) (*jwt.Claims, error)
	Fingerprint func(string) string
	Blacklist   func(ctx context.Context, fingerprint string, userID uuid.UUID, expiresAt time.Time) error
	FallbackTTL time.Duration
	Warn        func(format string, args ...any)
}

// LogoutResult reports whether a revocation record was written and for whom.
type LogoutResult struct {
	Revoked bool
	Subject uuid.UUID
	Err     error
}

// RunLogout revokes the presented refresh token. A token that fails
// verification (expired, tampered, garbage) is not an error: logout always
// succeeds from the bearer's perspective, and there is nothing left worth
// revoking. Only a failed revocation write surfaces as Err.
func RunLogout(ctx context.Context, refreshToken string, deps LogoutDeps) LogoutResult {
	trimmed := strings.TrimSpace(refreshToken)
	if trimmed == "" {
		return LogoutResult{}
	}

	claims, err := deps.Verify(trimmed)
	if err != nil {
		if deps.Warn != nil {
			deps.Warn("tokenauth: logout token verification failed: %v", err)
		}
		return LogoutResult{}
	}

	subject, err := claims.UserID()
	if err != nil {
		if deps.Warn != nil {
			deps.Warn("tokenauth: logout token carries malformed subject: %v", err)
		}
		return LogoutResult{}
	}

	expiresAt := time.Now().Add(deps.FallbackTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := deps.Blacklist(ctx, deps.Fingerprint(trimmed), subject, expiresAt); err != nil {
		return LogoutResult{Subject: subject, Err: err}
	}

	return LogoutResult{Revoked: true, Subject: subject}
}
