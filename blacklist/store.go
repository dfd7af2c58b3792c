package blacklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps connection, pool, and command failures. Callers
// may retry; the store never retries internally.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrTokenAlreadyExpired is returned when a blacklist request carries a
// non-positive remaining TTL: the token is already dead and there is nothing
// to revoke.
var ErrTokenAlreadyExpired = errors.New("token already expired")

// ErrInvalidRecord is returned when a per-token key holds a value that does
// not parse as an owner user ID.
var ErrInvalidRecord = errors.New("invalid blacklist record")

// DefaultPrefix is the Redis key namespace used when none is configured.
const DefaultPrefix = "auth:blacklist"

// Store records revoked tokens in Redis ahead of their natural expiry.
//
// Two kinds of keys:
//
//	{prefix}:token:{fingerprint} -> owner user ID   (authoritative, TTL = remaining lifetime)
//	{prefix}:user:{userID}       -> SET(fingerprint) (index for bulk revoke, TTL refreshed on insert)
//
// Redis TTL is the single source of truth for cleanup; nothing here sweeps.
// Writes that touch both keys run as one MULTI/EXEC transaction so a crash
// can never leave the token key without its index entry (or vice versa),
// which would make bulk revoke silently incomplete.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a revocation [Store] backed by the given Redis client.
// An empty prefix selects [DefaultPrefix].
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) tokenKey(fingerprint string) string {
	return s.prefix + ":token:" + fingerprint
}

func (s *Store) userKey(userID string) string {
	return s.prefix + ":user:" + userID
}

// Blacklist revokes a single token until expiresAt, after which Redis drops
// the record on its own. Returns [ErrTokenAlreadyExpired] when the remaining
// TTL is not positive.
//
//	Performance: 3 Redis commands in one MULTI/EXEC.
func (s *Store) Blacklist(ctx context.Context, fingerprint string, userID uuid.UUID, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return ErrTokenAlreadyExpired
	}

	tokenKey := s.tokenKey(fingerprint)
	userKey := s.userKey(userID.String())

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey, userID.String(), ttl)
		pipe.SAdd(ctx, userKey, fingerprint)
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// IsBlacklisted reports whether a token fingerprint is currently revoked.
//
//	Performance: 1 Redis EXISTS, O(1).
func (s *Store) IsBlacklisted(ctx context.Context, fingerprint string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.tokenKey(fingerprint)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// Remove deletes a single revocation record and its index entry. Idempotent:
// a fingerprint that was never blacklisted (or already expired) succeeds
// silently, so retries and double-logout are safe.
func (s *Store) Remove(ctx context.Context, fingerprint string) error {
	tokenKey := s.tokenKey(fingerprint)

	owner, err := s.redis.Get(ctx, tokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	userID, err := uuid.Parse(owner)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, tokenKey)
		pipe.SRem(ctx, s.userKey(userID.String()), fingerprint)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// RevokeAllForUser deletes every revocation record belonging to a user plus
// the index itself, in one transaction. Cost is O(number of that user's
// currently-blacklisted tokens); there is never a full-store scan. A user
// with no revoked tokens is a no-op success.
func (s *Store) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	userKey := s.userKey(userID.String())

	fingerprints, err := s.redis.SMembers(ctx, userKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, fp := range fingerprints {
			pipe.Del(ctx, s.tokenKey(fp))
		}
		pipe.Del(ctx, userKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// CleanupExpired always returns zero. Redis removes expired keys via TTL; an
// explicit sweep would duplicate that work and risk blocking under load.
func (s *Store) CleanupExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
