package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "DATA_PATH", "LOG_LEVEL", "ADMIN_USERNAME", "ADMIN_PASSWORD"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv returned error: %v", err)
	}
	if cfg.Port != "8000" || cfg.LogLevel != "info" || cfg.AdminUsername != "admin" || cfg.AdminPassword != "admin123" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.DatabaseURL != "" || cfg.DataPath != "" {
		t.Errorf("Expected no database settings, got %+v", cfg)
	}
}

func TestFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	if _, err := FromEnv(); err == nil {
		t.Errorf("Expected an error for a non numeric port")
	}
	t.Setenv("PORT", "70000")
	if _, err := FromEnv(); err == nil {
		t.Errorf("Expected an error for a port out of range")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("RESTBOOK_TEST_VALUE=from-file\nPORT=9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	saved := EnvPaths
	EnvPaths = []string{filepath.Join(dir, "missing.env"), path}
	defer func() { EnvPaths = saved }()

	t.Setenv("RESTBOOK_TEST_VALUE", "")
	os.Unsetenv("RESTBOOK_TEST_VALUE")
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if os.Getenv("RESTBOOK_TEST_VALUE") != "from-file" {
		t.Errorf("Expected .env to be loaded")
	}
	if cfg.Port != "9000" {
		t.Errorf("Expected PORT from .env, got %q", cfg.Port)
	}
}
