package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "STATIC_DIR", "STORE_DRIVER", "DATABASE_URL", "SQLITE_PATH", "REDIS_URL",
		"JWT_SECRET", "TOKEN_TTL", "VAT_RATE", "RATE_LIMIT_DAILY", "RATE_LIMIT_MONTHLY", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StoreDriver != "sqlite" || cfg.StoreDSN() != "./data/smartinvoice.db" {
		t.Errorf("store = %s %s, want sqlite ./data/smartinvoice.db", cfg.StoreDriver, cfg.StoreDSN())
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want 1h", cfg.TokenTTL)
	}
	if cfg.VATRate.String() != "0.15" {
		t.Errorf("VATRate = %s, want 0.15", cfg.VATRate)
	}
	if cfg.RateLimitDaily != 1000 || cfg.RateLimitMonthly != 20000 {
		t.Errorf("rate limits = %d/%d, want 1000/20000", cfg.RateLimitDaily, cfg.RateLimitMonthly)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.RedisURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/invoices")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("VAT_RATE", "0.2")
	t.Setenv("RATE_LIMIT_DAILY", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.StoreDSN() != "postgres://localhost/invoices" {
		t.Errorf("StoreDSN = %q", cfg.StoreDSN())
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.TokenTTL)
	}
	if cfg.VATRate.String() != "0.2" {
		t.Errorf("VATRate = %s, want 0.2", cfg.VATRate)
	}
	if cfg.RateLimitDaily != 50 {
		t.Errorf("RateLimitDaily = %d, want 50", cfg.RateLimitDaily)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{}},
		{"unknown driver", map[string]string{"JWT_SECRET": "s", "STORE_DRIVER": "mysql"}},
		{"postgres without url", map[string]string{"JWT_SECRET": "s", "STORE_DRIVER": "postgres"}},
		{"bad vat rate", map[string]string{"JWT_SECRET": "s", "VAT_RATE": "15%"}},
		{"vat rate above one", map[string]string{"JWT_SECRET": "s", "VAT_RATE": "15"}},
		{"bad ttl", map[string]string{"JWT_SECRET": "s", "TOKEN_TTL": "soon"}},
		{"bad limit", map[string]string{"JWT_SECRET": "s", "RATE_LIMIT_MONTHLY": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
