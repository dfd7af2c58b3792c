// Package tokenauth is a bearer-token authentication core: typed JWT
// issuance and verification (access, refresh, email-verification), refresh
// rotation, and Redis-backed distributed revocation for logout, account
// deletion, and forced sign-out.
//
// The package is the public surface. It exposes [Engine], [Builder],
// [Config], and value types; orchestration lives under internal/ and the two
// protocol layers live in the jwt and blacklist sub-packages.
//
// # Two independent checks
//
// Signature validity and revocation are deliberately separate. [Engine.Verify]
// is a pure function of the token and the shared secret — no I/O, no locks —
// while [Engine.IsRevoked] is a single Redis existence check. The
// [TokenAuthority] interface exposes both so call sites compose them
// explicitly; flows that do not need immediate invalidation (email
// verification, for instance) skip the revocation check on purpose.
//
// # Consistency
//
// A revoked token must never be usable again even though revocation state
// lives apart from the token. The blacklist writes its per-token key and
// per-user index in one Redis MULTI/EXEC, and every record carries a TTL
// equal to the token's remaining lifetime, so the store converges to empty
// on its own.
package tokenauth
