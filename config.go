package tokenauth

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ekstion/tokenauth/blacklist"
	"github.com/ekstion/tokenauth/jwt"
)

// Config is the full engine configuration. Zero values are filled from
// [defaultConfig] by [New]; [ConfigFromEnv] populates it from the
// environment.
type Config struct {
	JWT       JWTConfig
	Blacklist BlacklistConfig
	Metrics   MetricsConfig

	// RotateRefresh mints a brand-new refresh token on every successful
	// refresh instead of echoing the original back. Default true.
	RotateRefresh bool `env:"AUTH_ROTATE_REFRESH" envDefault:"true"`
}

// JWTConfig mirrors the signing configuration. Expiry values are plain
// seconds so the environment variables keep their historical integer form.
type JWTConfig struct {
	Secret string `env:"JWT_SECRET"`
	Issuer string `env:"JWT_ISSUER" envDefault:"Ekstion"`

	AccessExpirySeconds       int64 `env:"JWT_ACCESS_EXPIRY" envDefault:"1800"`
	RefreshExpirySeconds      int64 `env:"JWT_REFRESH_EXPIRY" envDefault:"604800"`
	VerificationExpirySeconds int64 `env:"JWT_VERIFICATION_EXPIRY" envDefault:"86400"`
	LeewaySeconds             int64 `env:"JWT_LEEWAY" envDefault:"30"`
}

// BlacklistConfig controls the revocation store.
type BlacklistConfig struct {
	RedisPrefix string `env:"AUTH_BLACKLIST_PREFIX" envDefault:"auth:blacklist"`
}

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled bool `env:"AUTH_METRICS_ENABLED" envDefault:"true"`
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			Issuer:                    "Ekstion",
			AccessExpirySeconds:       1800,
			RefreshExpirySeconds:      604800,
			VerificationExpirySeconds: 86400,
			LeewaySeconds:             30,
		},
		Blacklist: BlacklistConfig{
			RedisPrefix: blacklist.DefaultPrefix,
		},
		Metrics:       MetricsConfig{Enabled: true},
		RotateRefresh: true,
	}
}

// ConfigFromEnv loads configuration from the environment. Structural
// validation (secret length, TTL ordering) happens in [Builder.Build], not
// here.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// jwtConfig converts the wire-friendly seconds into the jwt package's
// duration-based config.
func (c Config) jwtConfig() jwt.Config {
	return jwt.Config{
		Secret:          []byte(c.JWT.Secret),
		Issuer:          c.JWT.Issuer,
		AccessTTL:       time.Duration(c.JWT.AccessExpirySeconds) * time.Second,
		RefreshTTL:      time.Duration(c.JWT.RefreshExpirySeconds) * time.Second,
		VerificationTTL: time.Duration(c.JWT.VerificationExpirySeconds) * time.Second,
		Leeway:          time.Duration(c.JWT.LeewaySeconds) * time.Second,
	}
}
