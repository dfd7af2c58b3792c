package tokenauth

import (
	"github.com/redis/go-redis/v9"

	"github.com/ekstion/tokenauth/blacklist"
	"github.com/ekstion/tokenauth/jwt"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the Engine's methods are called.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	warn   func(format string, args ...any)
	built  bool
}

// New returns a Builder pre-loaded with defaults.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the client backing the revocation store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithWarnLogger overrides the hook used for rare non-fatal warnings
// (defaults to log.Printf).
func (b *Builder) WithWarnLogger(warn func(format string, args ...any)) *Builder {
	b.warn = warn
	return b
}

// Build validates the configuration and returns a ready Engine. The jwt
// layer enforces the structural rules: secret at least 32 bytes, access TTL
// within (0, 24h], refresh TTL above access TTL, leeway at most 2 minutes.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderConsumed
	}
	if b.redis == nil {
		return nil, ErrRedisRequired
	}

	tokens, err := jwt.NewManager(b.config.jwtConfig())
	if err != nil {
		return nil, err
	}

	b.built = true
	return &Engine{
		tokens:        tokens,
		revocations:   blacklist.NewStore(b.redis, b.config.Blacklist.RedisPrefix),
		metrics:       NewMetrics(b.config.Metrics),
		rotateRefresh: b.config.RotateRefresh,
		warn:          b.warn,
	}, nil
}
