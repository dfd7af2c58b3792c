package tokenauth

import (
	"errors"

	"github.com/ekstion/tokenauth/blacklist"
	"github.com/ekstion/tokenauth/jwt"
)

var (
	// ErrEmptyToken is returned when a refresh request carries a blank or
	// whitespace-only token.
	ErrEmptyToken = errors.New("refresh token cannot be empty")
	// ErrRedisRequired is returned by Build when no Redis client was provided.
	ErrRedisRequired = errors.New("redis client is required")
	// ErrBuilderConsumed is returned when Build is called twice.
	ErrBuilderConsumed = errors.New("builder already consumed")
)

// Re-exported sentinels so callers can match every failure mode without
// importing the sub-packages.
var (
	ErrTokenExpired          = jwt.ErrTokenExpired
	ErrTokenNotYetValid      = jwt.ErrTokenNotYetValid
	ErrInvalidSignature      = jwt.ErrInvalidSignature
	ErrInvalidIssuer         = jwt.ErrInvalidIssuer
	ErrMalformedToken        = jwt.ErrMalformedToken
	ErrInvalidTokenType      = jwt.ErrInvalidTokenType
	ErrEncodingFailed        = jwt.ErrEncodingFailed
	ErrRevocationUnavailable = blacklist.ErrRedisUnavailable
	ErrTokenAlreadyExpired   = blacklist.ErrTokenAlreadyExpired
)
