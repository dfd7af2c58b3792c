// Package jwt implements the claim codec and typed token issuer/verifier.
//
// Tokens are compact HS256 JWTs carrying sub, exp, iat, nbf, iss, a
// token_type tag (access, refresh, verification) and an is_verified snapshot.
// A fixed clock-skew leeway (30s by default) is applied to the expiry and
// not-before checks on decode.
//
// The [Manager] holds no mutable state: issuance and verification are pure
// functions of the configuration, so concurrent use needs no locking.
// Revocation is a separate concern handled by the blacklist package;
// [Manager.Verify] never consults it.
package jwt
