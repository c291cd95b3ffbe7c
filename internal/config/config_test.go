package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no stray config file is picked up.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.MPD.Host != "localhost" || cfg.MPD.Port != 6600 {
		t.Errorf("unexpected MPD defaults: %+v", cfg.MPD)
	}
	if cfg.Library.MinDuration != 60 {
		t.Errorf("Library.MinDuration = %d, want 60", cfg.Library.MinDuration)
	}
	if !cfg.Library.Watch {
		t.Error("Library.Watch should default to true")
	}
	if cfg.Storage.DBPath != "data/isai.db" {
		t.Errorf("Storage.DBPath = %q", cfg.Storage.DBPath)
	}
	if cfg.History.RecentCap != 100 {
		t.Errorf("History.RecentCap = %d, want 100", cfg.History.RecentCap)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "isai.toml")
	content := `
[server]
port = 8090

[library]
roots = ["/music", "/downloads"]
min_duration = 30

[mpd]
password = "secret"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want 8090", cfg.Server.Port)
	}
	if len(cfg.Library.Roots) != 2 || cfg.Library.Roots[0] != "/music" {
		t.Errorf("Library.Roots = %v", cfg.Library.Roots)
	}
	if cfg.Library.MinDuration != 30 {
		t.Errorf("Library.MinDuration = %d, want 30", cfg.Library.MinDuration)
	}
	if cfg.MPD.Password != "secret" {
		t.Errorf("MPD.Password = %q", cfg.MPD.Password)
	}
	// Untouched sections keep their defaults.
	if cfg.MPD.Port != 6600 {
		t.Errorf("MPD.Port = %d, want 6600", cfg.MPD.Port)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load should fail for an explicitly named missing file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ISAI_SERVER_PORT", "9001")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want 9001 from environment", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero server port should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Library.MinDuration = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative min duration should fail validation")
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 3000}
	if got := s.Addr(); got != "127.0.0.1:3000" {
		t.Errorf("Addr = %q", got)
	}
}
