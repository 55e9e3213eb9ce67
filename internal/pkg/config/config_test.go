package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if cfg.Port != "3011" || cfg.StoreDriver != DriverMySQL || !cfg.IsDevelopment() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWT.TTL != 60*time.Minute {
		t.Fatalf("expected 60m token ttl, got %v", cfg.JWT.TTL)
	}
	if len(cfg.JWT.Algorithms) != 1 || cfg.JWT.Algorithms[0] != "HS256" {
		t.Fatalf("unexpected algorithms: %v", cfg.JWT.Algorithms)
	}
	if cfg.Redis.Addr != "" || cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if len(cfg.CORS.AllowOrigins) != 1 || cfg.CORS.AllowOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORS.AllowOrigins)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "s3cret",
		"JWT_TTL":        "15m",
		"JWT_ALGORITHMS": "HS512,HS256",
		"STORE_DRIVER":   "mongo",
		"REDIS_ADDR":     "redis:6379",
		"ENV":            "production",

		"CORS_ALLOW_ORIGINS": "https://shop.example.com,https://admin.example.com",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.JWT.TTL != 15*time.Minute || cfg.JWT.Algorithms[0] != "HS512" || cfg.StoreDriver != DriverMongo {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("expected production env")
	}
	if len(cfg.CORS.AllowOrigins) != 2 || cfg.CORS.AllowOrigins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORS.AllowOrigins)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"bad driver":     {"JWT_SECRET": "s", "STORE_DRIVER": "sqlite"},
		"bad algorithm":  {"JWT_SECRET": "s", "JWT_ALGORITHMS": "none"},
		"zero ttl":       {"JWT_SECRET": "s", "JWT_TTL": "0s"},
		"half admin":     {"JWT_SECRET": "s", "ADMIN_EMAIL": "root@example.com"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadWith_ErrorMentionsVariable(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET in error, got %v", err)
	}
}
