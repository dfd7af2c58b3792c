// Package blacklist implements the TTL-backed revocation store.
//
// A token is revoked by inserting its SHA-256 fingerprint with a TTL equal to
// the token's remaining lifetime; once the token would have expired on its
// own, the record evaporates. A per-user index set supports revoking all of a
// user's blacklisted tokens without scanning the keyspace. Multi-key writes
// run inside Redis MULTI/EXEC so the token key and the index can never
// diverge.
package blacklist
