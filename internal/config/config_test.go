package config

import "testing"

func TestLoad(t *testing.T) {
	t.Run("missing license secret fails", func(t *testing.T) {
		if _, err := Load(); err == nil {
			t.Fatal("expected an error without a license secret")
		}
	})

	t.Run("defaults apply", func(t *testing.T) {
		t.Setenv("TILLPOINT_LICENSE_SECRET", "test-secret")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if cfg.Server.Addr() != ":8080" {
			t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr())
		}
		if cfg.Storage.DBPath != "./data/pos.db" {
			t.Errorf("unexpected default db path %q", cfg.Storage.DBPath)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("expected default log level info, got %q", cfg.Log.Level)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TILLPOINT_LICENSE_SECRET", "test-secret")
		t.Setenv("TILLPOINT_SERVER_PORT", "9090")
		t.Setenv("TILLPOINT_LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if cfg.Server.Port != "9090" {
			t.Errorf("expected port 9090, got %q", cfg.Server.Port)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("expected debug level, got %q", cfg.Log.Level)
		}
	})

	t.Run("invalid log level fails", func(t *testing.T) {
		t.Setenv("TILLPOINT_LICENSE_SECRET", "test-secret")
		t.Setenv("TILLPOINT_LOG_LEVEL", "verbose")

		if _, err := Load(); err == nil {
			t.Fatal("expected an error for an unknown log level")
		}
	})
}
