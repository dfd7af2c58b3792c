package tokenauth

import (
	"testing"
	"time"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.JWT.Secret != testSecret {
		t.Errorf("secret = %q", cfg.JWT.Secret)
	}
	if cfg.JWT.Issuer != "Ekstion" {
		t.Errorf("issuer = %q, want default", cfg.JWT.Issuer)
	}
	if cfg.JWT.AccessExpirySeconds != 1800 {
		t.Errorf("access expiry = %d, want 1800", cfg.JWT.AccessExpirySeconds)
	}
	if cfg.JWT.RefreshExpirySeconds != 604800 {
		t.Errorf("refresh expiry = %d, want 604800", cfg.JWT.RefreshExpirySeconds)
	}
	if cfg.JWT.VerificationExpirySeconds != 86400 {
		t.Errorf("verification expiry = %d, want 86400", cfg.JWT.VerificationExpirySeconds)
	}
	if cfg.JWT.LeewaySeconds != 30 {
		t.Errorf("leeway = %d, want 30", cfg.JWT.LeewaySeconds)
	}
	if !cfg.RotateRefresh {
		t.Error("rotation should default on")
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should default on")
	}
	if cfg.Blacklist.RedisPrefix != "auth:blacklist" {
		t.Errorf("prefix = %q", cfg.Blacklist.RedisPrefix)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_ISSUER", "StagingIssuer")
	t.Setenv("JWT_ACCESS_EXPIRY", "900")
	t.Setenv("JWT_REFRESH_EXPIRY", "3600")
	t.Setenv("AUTH_ROTATE_REFRESH", "false")
	t.Setenv("AUTH_BLACKLIST_PREFIX", "staging:blacklist")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.JWT.Issuer != "StagingIssuer" {
		t.Errorf("issuer = %q", cfg.JWT.Issuer)
	}
	if cfg.JWT.AccessExpirySeconds != 900 || cfg.JWT.RefreshExpirySeconds != 3600 {
		t.Errorf("expiries = %d/%d", cfg.JWT.AccessExpirySeconds, cfg.JWT.RefreshExpirySeconds)
	}
	if cfg.RotateRefresh {
		t.Error("rotation override ignored")
	}
	if cfg.Blacklist.RedisPrefix != "staging:blacklist" {
		t.Errorf("prefix = %q", cfg.Blacklist.RedisPrefix)
	}
}

func TestConfigFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-number")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestJWTConfigConversion(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessExpirySeconds = 900

	jc := cfg.jwtConfig()
	if jc.AccessTTL != 15*time.Minute {
		t.Errorf("AccessTTL = %v, want 15m", jc.AccessTTL)
	}
	if jc.RefreshTTL != 7*24*time.Hour {
		t.Errorf("RefreshTTL = %v, want 168h", jc.RefreshTTL)
	}
	if jc.Leeway != 30*time.Second {
		t.Errorf("Leeway = %v, want 30s", jc.Leeway)
	}
	if string(jc.Secret) != testSecret {
		t.Error("secret not carried over")
	}
}
