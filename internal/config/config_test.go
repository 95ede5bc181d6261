package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.Env == "" {
		t.Fatalf("expected default env")
	}
	if cfg.MaxUploadBytes <= 0 {
		t.Fatalf("expected default upload limit")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("ENV", "production")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.Env != "production" {
		t.Fatalf("expected override env")
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Fatalf("expected override upload limit")
	}
}
