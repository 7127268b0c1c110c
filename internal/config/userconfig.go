package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// UserConfig is the on-disk YAML sidecar (pastebar_settings.yaml) holding
// the one bootstrap knob the database itself can't store: where the
// database lives. Everything else is free-form, preserved round-trip.
type UserConfig struct {
	CustomDBPath string                 `yaml:"custom_db_path,omitempty"`
	Data         map[string]interface{} `yaml:"data,omitempty"`
}

// LoadUserConfig reads and parses path. A missing file is not an error;
// it returns a zero-value UserConfig, matching the "missing/invalid
// settings -> documented default" policy.
func LoadUserConfig(path string) (*UserConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &UserConfig{Data: map[string]interface{}{}}, nil
		}
		return nil, err
	}
	var cfg UserConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	if cfg.Data == nil {
		cfg.Data = map[string]interface{}{}
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML, creating or truncating the file.
func (c *UserConfig) Save(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
