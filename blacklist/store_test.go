package blacklist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newStoreTest(t *testing.T) (*Store, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewStore(rdb, ""), mr, rdb
}

func TestBlacklistRoundTrip(t *testing.T) {
	store, mr, _ := newStoreTest(t)
	ctx := context.Background()
	fp := Fingerprint("token-1")

	if err := store.Blacklist(ctx, fp, uuid.New(), time.Now().Add(30*time.Second)); err != nil {
		t.Fatalf("blacklist: %v", err)
	}

	revoked, err := store.IsBlacklisted(ctx, fp)
	if err != nil {
		t.Fatalf("is blacklisted: %v", err)
	}
	if !revoked {
		t.Fatal("token should be blacklisted")
	}

	mr.FastForward(31 * time.Second)

	revoked, err = store.IsBlacklisted(ctx, fp)
	if err != nil {
		t.Fatalf("is blacklisted after ttl: %v", err)
	}
	if revoked {
		t.Fatal("record should expire with the token's remaining lifetime")
	}
}

func TestBlacklistRejectsAlreadyExpired(t *testing.T) {
	store, _, _ := newStoreTest(t)

	err := store.Blacklist(context.Background(), Fingerprint("dead"), uuid.New(), time.Now().Add(-time.Second))
	if !errors.Is(err, ErrTokenAlreadyExpired) {
		t.Fatalf("expected ErrTokenAlreadyExpired, got %v", err)
	}
}

func TestBlacklistWritesUserIndex(t *testing.T) {
	store, _, rdb := newStoreTest(t)
	ctx := context.Background()
	userID := uuid.New()
	fp := Fingerprint("token-indexed")

	if err := store.Blacklist(ctx, fp, userID, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("blacklist: %v", err)
	}

	members, err := rdb.SMembers(ctx, store.userKey(userID.String())).Result()
	if err != nil {
		t.Fatalf("smembers: %v", err)
	}
	if len(members) != 1 || members[0] != fp {
		t.Fatalf("expected index [%s], got %v", fp, members)
	}

	owner, err := rdb.Get(ctx, store.tokenKey(fp)).Result()
	if err != nil {
		t.Fatalf("get token key: %v", err)
	}
	if owner != userID.String() {
		t.Fatalf("expected owner %s, got %s", userID, owner)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, _, _ := newStoreTest(t)
	ctx := context.Background()

	if err := store.Remove(ctx, Fingerprint("never-blacklisted")); err != nil {
		t.Fatalf("removing an unknown fingerprint must succeed, got %v", err)
	}

	fp := Fingerprint("token-remove")
	userID := uuid.New()
	if err := store.Blacklist(ctx, fp, userID, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if err := store.Remove(ctx, fp); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := store.Remove(ctx, fp); err != nil {
		t.Fatalf("second remove: %v", err)
	}

	revoked, err := store.IsBlacklisted(ctx, fp)
	if err != nil {
		t.Fatalf("is blacklisted: %v", err)
	}
	if revoked {
		t.Fatal("removed token should not be blacklisted")
	}
}

func TestRemoveCleansUserIndex(t *testing.T) {
	store, _, rdb := newStoreTest(t)
	ctx := context.Background()
	userID := uuid.New()
	fp := Fingerprint("token-index-clean")

	if err := store.Blacklist(ctx, fp, userID, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if err := store.Remove(ctx, fp); err != nil {
		t.Fatalf("remove: %v", err)
	}

	members, err := rdb.SMembers(ctx, store.userKey(userID.String())).Result()
	if err != nil {
		t.Fatalf("smembers: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected empty index, got %v", members)
	}
}

func TestRevokeAllForUserIsolation(t *testing.T) {
	store, _, rdb := newStoreTest(t)
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	fps := []string{Fingerprint("t1"), Fingerprint("t2"), Fingerprint("t3")}
	for _, fp := range fps {
		if err := store.Blacklist(ctx, fp, userA, time.Now().Add(time.Minute)); err != nil {
			t.Fatalf("blacklist %s: %v", fp, err)
		}
	}
	otherFP := Fingerprint("other-user-token")
	if err := store.Blacklist(ctx, otherFP, userB, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("blacklist other user: %v", err)
	}

	if err := store.RevokeAllForUser(ctx, userA); err != nil {
		t.Fatalf("revoke all: %v", err)
	}

	for _, fp := range fps {
		revoked, err := store.IsBlacklisted(ctx, fp)
		if err != nil {
			t.Fatalf("is blacklisted %s: %v", fp, err)
		}
		if revoked {
			t.Fatalf("fingerprint %s should be gone after bulk revoke", fp)
		}
	}

	revoked, err := store.IsBlacklisted(ctx, otherFP)
	if err != nil {
		t.Fatalf("is blacklisted other: %v", err)
	}
	if !revoked {
		t.Fatal("another user's record must survive bulk revoke")
	}

	if n, err := rdb.Exists(ctx, store.userKey(userA.String())).Result(); err != nil || n != 0 {
		t.Fatalf("user index should be deleted, exists=%d err=%v", n, err)
	}
}

func TestRevokeAllForUserNoTokens(t *testing.T) {
	store, _, _ := newStoreTest(t)

	if err := store.RevokeAllForUser(context.Background(), uuid.New()); err != nil {
		t.Fatalf("revoking a user with no tokens must succeed, got %v", err)
	}
}

func TestCleanupExpiredReturnsZero(t *testing.T) {
	store, _, _ := newStoreTest(t)

	n, err := store.CleanupExpired(context.Background())
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if n != 0 {
		t.Fatalf("cleanup must return 0, got %d", n)
	}
}

func TestStoreRedisUnavailable(t *testing.T) {
	store, mr, _ := newStoreTest(t)
	ctx := context.Background()
	mr.Close()

	if err := store.Blacklist(ctx, Fingerprint("x"), uuid.New(), time.Now().Add(time.Minute)); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if _, err := store.IsBlacklisted(ctx, Fingerprint("x")); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if _, err := store.Ping(ctx); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	if Fingerprint("my_token_123") != Fingerprint("my_token_123") {
		t.Fatal("fingerprint must be deterministic")
	}
	if Fingerprint("token_1") == Fingerprint("token_2") {
		t.Fatal("distinct tokens must have distinct fingerprints")
	}
	if got := len(Fingerprint("any_token")); got != 64 {
		t.Fatalf("expected 64 hex characters, got %d", got)
	}
}
