package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		content := `
[credentials.yandex]
token = "test-token"
language = "en"

[table]
backend = "xlsx"
path = "likes.xlsx"

[api]
rate_limit = 4.0
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Credentials.Yandex.Token != "test-token" {
			t.Errorf("token = %q, want %q", config.Credentials.Yandex.Token, "test-token")
		}
		if config.Table.Backend != "xlsx" {
			t.Errorf("backend = %q, want xlsx", config.Table.Backend)
		}
		if config.API.RateLimit != 4.0 {
			t.Errorf("rate_limit = %v, want 4.0", config.API.RateLimit)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("not [valid"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for malformed toml")
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config == nil {
		t.Fatal("expected default config")
	}
	if config.Table.Backend == "" {
		t.Error("expected default table backend")
	}
	if config.API.BaseURL == "" {
		t.Error("expected default API base URL")
	}
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("creates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected config file at %s: %v", path, err)
		}

		// Round-trips through the loader.
		if _, err := LoadConfig(path); err != nil {
			t.Errorf("created config failed to load: %v", err)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("# existing"), 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when file exists")
		}
	})
}
