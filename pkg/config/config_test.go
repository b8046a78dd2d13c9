package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected default env to be dev, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("unexpected default port %q", cfg.App.Port)
	}
	if cfg.DB.DSN != "file:warehouse?mode=memory&cache=shared" {
		t.Fatalf("unexpected default DSN %q", cfg.DB.DSN)
	}
	if !cfg.Seed.DemoData {
		t.Fatal("expected demo seed to default on")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WAREHOUSE_APP_ENV", "prod")
	t.Setenv("WAREHOUSE_APP_PORT", "9090")
	t.Setenv("WAREHOUSE_SEED_DEMO_DATA", "false")
	t.Setenv("WAREHOUSE_CORS_ORIGINS", "http://localhost:3000, https://warehouse.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "9090" {
		t.Fatalf("unexpected port %q", cfg.App.Port)
	}
	if cfg.Seed.DemoData {
		t.Fatal("expected demo seed disabled")
	}

	origins := cfg.App.AllowedOrigins()
	if len(origins) != 2 || origins[0] != "http://localhost:3000" || origins[1] != "https://warehouse.example.com" {
		t.Fatalf("unexpected origins %v", origins)
	}
}
