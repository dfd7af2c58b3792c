package tokenauth

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ekstion/tokenauth/blacklist"
	"github.com/ekstion/tokenauth/internal/flows"
	"github.com/ekstion/tokenauth/jwt"
)

// logoutFallbackTTL bounds the revocation record when a token somehow
// carries no expiry claim.
const logoutFallbackTTL = 7 * 24 * time.Hour

// Engine is the public facade over the token manager and the revocation
// store. All methods are safe for concurrent use after [Builder.Build]; no
// method takes an in-process lock. The only serialization point is the Redis
// MULTI/EXEC inside the revocation writes.
type Engine struct {
	tokens        *jwt.Manager
	revocations   *blacklist.Store
	metrics       *Metrics
	rotateRefresh bool
	warn          func(format string, args ...any)
}

var _ TokenAuthority = (*Engine)(nil)

func (e *Engine) warnf(format string, args ...any) {
	if e.warn != nil {
		e.warn(format, args...)
		return
	}
	log.Printf(format, args...)
}

// IssueAccessToken mints an access token for subject, snapshotting the
// account's verification state at issuance time.
func (e *Engine) IssueAccessToken(subject uuid.UUID, verified bool) (string, error) {
	token, err := e.tokens.GenerateAccessToken(subject, verified)
	if err != nil {
		return "", err
	}
	e.metrics.Inc(MetricIssueAccess)
	return token, nil
}

// IssueRefreshToken mints a refresh token for subject.
func (e *Engine) IssueRefreshToken(subject uuid.UUID, verified bool) (string, error) {
	token, err := e.tokens.GenerateRefreshToken(subject, verified)
	if err != nil {
		return "", err
	}
	e.metrics.Inc(MetricIssueRefresh)
	return token, nil
}

// IssueVerificationToken mints an email verification token for subject.
func (e *Engine) IssueVerificationToken(subject uuid.UUID) (string, error) {
	token, err := e.tokens.GenerateVerificationToken(subject)
	if err != nil {
		return "", err
	}
	e.metrics.Inc(MetricIssueVerification)
	return token, nil
}

// Verify checks signature and time window and returns the claims unchanged.
// It is a pure function of the token and the shared secret: no Redis
// round-trip, no type enforcement. Callers that need immediate-invalidation
// semantics must also consult [Engine.IsRevoked].
func (e *Engine) Verify(token string) (*Claims, error) {
	claims, err := e.tokens.Verify(token)
	if err != nil {
		e.metrics.Inc(MetricVerifyFailure)
		return nil, err
	}
	e.metrics.Inc(MetricVerifySuccess)
	return claims, nil
}

// VerifyVerificationToken verifies an email verification token and returns
// the subject it was issued for. Verification tokens intentionally skip the
// revocation check: they are single-purpose and short-lived.
func (e *Engine) VerifyVerificationToken(token string) (uuid.UUID, error) {
	return e.tokens.VerifyVerificationToken(token)
}

// Refresh exchanges a refresh token for a new access token, rotating the
// refresh token when rotation is enabled (the default). A blank token is
// rejected with [ErrEmptyToken] before any verification work.
//
// Refresh does not consult the revocation store and does not revoke the
// superseded refresh token; see the flows package for the race this leaves
// open by design.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	res := flows.RunRefresh(refreshToken, flows.RefreshDeps{
		Verify:        e.tokens.Verify,
		IssueAccess:   e.IssueAccessToken,
		IssueRefresh:  e.IssueRefreshToken,
		RotateRefresh: e.rotateRefresh,
	})

	switch res.Failure {
	case flows.RefreshFailureNone:
		e.metrics.Inc(MetricRefreshSuccess)
		return TokenPair{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
	case flows.RefreshFailureEmptyToken:
		e.metrics.Inc(MetricRefreshFailure)
		return TokenPair{}, ErrEmptyToken
	default:
		e.metrics.Inc(MetricRefreshFailure)
		return TokenPair{}, res.Err
	}
}

// Logout revokes the presented refresh token. Invalid or expired tokens are
// not errors — logout always succeeds from the bearer's perspective — so the
// only failure mode is an unavailable revocation store. Callers decide
// whether that is fatal to their logout flow.
func (e *Engine) Logout(ctx context.Context, refreshToken string) error {
	res := flows.RunLogout(ctx, refreshToken, flows.LogoutDeps{
		Verify:      e.tokens.Verify,
		Fingerprint: blacklist.Fingerprint,
		Blacklist:   e.revocations.Blacklist,
		FallbackTTL: logoutFallbackTTL,
		Warn:        e.warnf,
	})
	if res.Err != nil {
		if errors.Is(res.Err, blacklist.ErrTokenAlreadyExpired) {
			return nil
		}
		return res.Err
	}
	if res.Revoked {
		e.metrics.Inc(MetricLogout)
	}
	return nil
}

// Revoke is the strict revocation path (account deletion, forced sign-out of
// a single token): the token must verify, and every failure — including a
// token that is already past expiry — propagates to the caller.
func (e *Engine) Revoke(ctx context.Context, token string) error {
	claims, err := e.tokens.Verify(token)
	if err != nil {
		return err
	}
	subject, err := claims.UserID()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(logoutFallbackTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := e.revocations.Blacklist(ctx, blacklist.Fingerprint(token), subject, expiresAt); err != nil {
		return err
	}
	e.metrics.Inc(MetricRevoke)
	return nil
}

// IsRevoked reports whether a token has been blacklisted. It says nothing
// about signature validity or expiry; compose with [Engine.Verify].
func (e *Engine) IsRevoked(ctx context.Context, token string) (bool, error) {
	return e.revocations.IsBlacklisted(ctx, blacklist.Fingerprint(token))
}

// RemoveRevocation deletes a single revocation record. Idempotent: removing
// a token that was never revoked succeeds.
func (e *Engine) RemoveRevocation(ctx context.Context, token string) error {
	return e.revocations.Remove(ctx, blacklist.Fingerprint(token))
}

// RevokeAllUserTokens deletes every revocation record belonging to a user.
// Used by account deletion; cost is proportional to the user's blacklisted
// tokens, never the store size.
func (e *Engine) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	if err := e.revocations.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	e.metrics.Inc(MetricRevokeAll)
	return nil
}

// CleanupExpired always returns zero: Redis TTL owns expiry.
func (e *Engine) CleanupExpired(ctx context.Context) (int64, error) {
	return e.revocations.CleanupExpired(ctx)
}

// Ping probes the revocation store and returns the round-trip latency.
func (e *Engine) Ping(ctx context.Context) (time.Duration, error) {
	return e.revocations.Ping(ctx)
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}
