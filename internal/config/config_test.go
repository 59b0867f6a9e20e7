package config_test

import (
	"testing"
	"time"

	"github.com/PabloGalante/intake-agent/internal/config"
)

func TestLoadLocalDefaults(t *testing.T) {
	t.Setenv("INTAKE_MODE", "")
	t.Setenv("INTAKE_STORAGE_BACKEND", "")
	t.Setenv("INTAKE_USE_MOCK_LLM", "")
	t.Setenv("LLM_TIMEOUT", "")
	t.Setenv("SEED_DEPARTMENTS", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Mode != config.ModeLocal {
		t.Fatalf("expected local mode, got %q", cfg.Mode)
	}
	if !cfg.UseMockLLM {
		t.Fatalf("expected mock LLM in local mode")
	}
	if cfg.StorageBackend != config.StorageMemory {
		t.Fatalf("expected memory storage, got %q", cfg.StorageBackend)
	}
	if cfg.LLMTimeout != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %s", cfg.LLMTimeout)
	}
	if !cfg.SeedDepartments {
		t.Fatalf("expected departments to be seeded for memory storage")
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	t.Setenv("INTAKE_MODE", "gcp")
	t.Setenv("INTAKE_USE_MOCK_LLM", "0")
	t.Setenv("INTAKE_LLM_BACKEND", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("INTAKE_STORAGE_BACKEND", "memory")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error without GEMINI_API_KEY")
	}
}

func TestLoadPostgresNeedsDSN(t *testing.T) {
	t.Setenv("INTAKE_USE_MOCK_LLM", "1")
	t.Setenv("INTAKE_STORAGE_BACKEND", "postgres")
	t.Setenv("DB_URL", "")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error without DB_URL")
	}
}

func TestLoadParsesDurations(t *testing.T) {
	t.Setenv("INTAKE_USE_MOCK_LLM", "1")
	t.Setenv("INTAKE_STORAGE_BACKEND", "memory")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("LOCK_TTL", "bogus")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid LOCK_TTL")
	}

	t.Setenv("LOCK_TTL", "30s")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLMTimeout != 15*time.Second || cfg.LockTTL != 30*time.Second {
		t.Fatalf("unexpected durations: %s %s", cfg.LLMTimeout, cfg.LockTTL)
	}
}

func TestLoadRejectsNonPositiveLockTTL(t *testing.T) {
	t.Setenv("INTAKE_USE_MOCK_LLM", "1")
	t.Setenv("INTAKE_STORAGE_BACKEND", "memory")
	t.Setenv("LOCK_TTL", "0s")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for LOCK_TTL=0s")
	}
}
