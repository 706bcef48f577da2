package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "homepro")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestLoad_MissingRequiredAggregated(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_NAME", "")
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := Load()
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected missing-env error, got %v", err)
	}
	for _, key := range []string{"APP_NAME", "JWT_ACCESS_SECRET"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %q does not name %s", err, key)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "")
	t.Setenv("JWT_REFRESH_EXPIRES_IN", "")
	t.Setenv("DB_CONNECT_TIMEOUT", "")
	t.Setenv("DB_POOL_MAX_CONNS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWT.AccessExpiresIn != 15*time.Minute {
		t.Fatalf("access expiry = %s", cfg.JWT.AccessExpiresIn)
	}
	if cfg.JWT.RefreshExpiresIn != 7*24*time.Hour {
		t.Fatalf("refresh expiry = %s", cfg.JWT.RefreshExpiresIn)
	}
	if cfg.Database.ConnectTimeout != 5*time.Second {
		t.Fatalf("connect timeout = %s", cfg.Database.ConnectTimeout)
	}
	if cfg.Database.PoolMaxConns != 0 {
		t.Fatalf("pool max conns = %d", cfg.Database.PoolMaxConns)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "30m")
	t.Setenv("DB_POOL_MAX_CONNS", "25")
	t.Setenv("DB_MIGRATIONS_DIR", "/opt/migrations")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWT.AccessExpiresIn != 30*time.Minute {
		t.Fatalf("access expiry = %s", cfg.JWT.AccessExpiresIn)
	}
	if cfg.Database.PoolMaxConns != 25 {
		t.Fatalf("pool max conns = %d", cfg.Database.PoolMaxConns)
	}
	if cfg.Database.MigrationsDir != "/opt/migrations" {
		t.Fatalf("migrations dir = %q", cfg.Database.MigrationsDir)
	}
}

func TestDurationEnv_RejectsMalformed(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	if got := durationEnv("SOME_DURATION", time.Minute); got != time.Minute {
		t.Fatalf("got %s, want fallback", got)
	}

	t.Setenv("SOME_DURATION", "-5s")
	if got := durationEnv("SOME_DURATION", time.Minute); got != time.Minute {
		t.Fatalf("got %s, want fallback for negative", got)
	}
}

func TestInt32Env_RejectsMalformed(t *testing.T) {
	t.Setenv("SOME_INT", "many")
	if got := int32Env("SOME_INT", 7); got != 7 {
		t.Fatalf("got %d, want fallback", got)
	}

	t.Setenv("SOME_INT", "-3")
	if got := int32Env("SOME_INT", 7); got != 7 {
		t.Fatalf("got %d, want fallback for negative", got)
	}
}
