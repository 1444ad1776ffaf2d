package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.CatalogSource != CatalogSourcePostgres {
		t.Errorf("CatalogSource = %q, want %q", cfg.CatalogSource, CatalogSourcePostgres)
	}
	if cfg.CatalogCacheTTL != 5*time.Minute {
		t.Errorf("CatalogCacheTTL = %v, want 5m", cfg.CatalogCacheTTL)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when JWT_SECRET is missing")
	}
}

func TestLoadRejectsUnknownCatalogSource(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CATALOG_SOURCE", "csv")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unknown catalog source")
	}
}

func TestLoadRejectsBadCacheTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "-5")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a negative cache TTL")
	}
}
