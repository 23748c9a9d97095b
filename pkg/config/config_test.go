package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
}

func TestLoad_Defaults(t *testing.T) {
	writeConfig(t, `
env: "test"
`)

	// Clear env vars that might interfere with test
	os.Unsetenv("PORT")
	os.Unsetenv("DATABASE_TYPE")
	os.Unsetenv("AI_PROVIDER")
	os.Unsetenv("AI_MODEL")
	os.Unsetenv("AI_REQUEST_TIMEOUT_SECONDS")
	os.Unsetenv("UPLOAD_MAX_SIZE_BYTES")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.Port != "3001" {
		t.Errorf("expected Port=3001 (default), got %s", cfg.Port)
	}
	if cfg.Database.Type != StoreMemory {
		t.Errorf("expected Database.Type=memory (default), got %s", cfg.Database.Type)
	}
	if cfg.AI.Provider != ProviderOpenAI {
		t.Errorf("expected AI.Provider=openai (default), got %s", cfg.AI.Provider)
	}
	if cfg.AI.RequestTimeout() != 60*time.Second {
		t.Errorf("expected 60s request timeout (default), got %s", cfg.AI.RequestTimeout())
	}
	if cfg.Upload.MaxSizeBytes != 10*1024*1024 {
		t.Errorf("expected 10MiB upload limit (default), got %d", cfg.Upload.MaxSizeBytes)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	writeConfig(t, `
port: "3001"
env: "test"
database:
  type: "memory"
  host: "db.example.com"
ai:
  provider: "openai"
  model: "gpt-4o-mini"
`)

	os.Unsetenv("PGHOST")

	// Set env vars to override YAML values
	t.Setenv("PORT", "4001")
	t.Setenv("AI_MODEL", "gpt-4o")
	t.Setenv("AI_PROVIDER", "anthropic")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "4001" {
		t.Errorf("expected Port=4001 (from env), got %s", cfg.Port)
	}
	if cfg.AI.Model != "gpt-4o" {
		t.Errorf("expected AI.Model=gpt-4o (from env), got %s", cfg.AI.Model)
	}
	if cfg.AI.Provider != ProviderAnthropic {
		t.Errorf("expected AI.Provider=anthropic (from env), got %s", cfg.AI.Provider)
	}

	// Verify YAML value used for database host (proves YAML was read)
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("expected Database.Host=db.example.com (from yaml), got %s", cfg.Database.Host)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})

	_, err = Load("test-version")
	if err == nil {
		t.Error("expected error when config.yaml is missing")
	}
}

func TestLoad_RejectsUnknownStoreType(t *testing.T) {
	writeConfig(t, `
env: "test"
database:
  type: "sqlite"
`)
	os.Unsetenv("DATABASE_TYPE")

	_, err := Load("test-version")
	if err == nil {
		t.Fatal("expected error for unknown database.type, got nil")
	}
	if !strings.Contains(err.Error(), "database.type") {
		t.Errorf("expected error to mention database.type, got: %v", err)
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	writeConfig(t, `
env: "test"
ai:
  provider: "cohere"
`)
	os.Unsetenv("AI_PROVIDER")

	_, err := Load("test-version")
	if err == nil {
		t.Fatal("expected error for unknown ai.provider, got nil")
	}
	if !strings.Contains(err.Error(), "ai.provider") {
		t.Errorf("expected error to mention ai.provider, got: %v", err)
	}
}

func TestLoad_RejectsNonPositiveLimits(t *testing.T) {
	writeConfig(t, `
env: "test"
upload:
  max_size_bytes: -1
`)
	os.Unsetenv("UPLOAD_MAX_SIZE_BYTES")

	_, err := Load("test-version")
	if err == nil {
		t.Fatal("expected error for negative upload limit, got nil")
	}
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "codeloom",
		Password: "secret",
		Database: "codeloom_engine",
		SSLMode:  "disable",
	}

	got := cfg.ConnectionString()
	want := "host=localhost port=5432 user=codeloom password=secret dbname=codeloom_engine sslmode=disable"
	if got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}
