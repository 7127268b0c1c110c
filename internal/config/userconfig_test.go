package config

import (
	"path/filepath"
	"testing"
)

func TestLoadUserConfigMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadUserConfig(filepath.Join(dir, "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadUserConfig() error = %v", err)
	}
	if cfg.CustomDBPath != "" {
		t.Errorf("CustomDBPath = %q, want empty", cfg.CustomDBPath)
	}
}

func TestUserConfigSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pastebar_settings.yaml")

	cfg := &UserConfig{
		CustomDBPath: "/data/clipvault",
		Data:         map[string]interface{}{"theme": "dark"},
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadUserConfig(path)
	if err != nil {
		t.Fatalf("LoadUserConfig() error = %v", err)
	}
	if loaded.CustomDBPath != cfg.CustomDBPath {
		t.Errorf("CustomDBPath = %q, want %q", loaded.CustomDBPath, cfg.CustomDBPath)
	}
	if loaded.Data["theme"] != "dark" {
		t.Errorf("Data[theme] = %v, want dark", loaded.Data["theme"])
	}
}
