package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file based on its extension, on top of Defaults.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := decode(filepath.Ext(path), b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decode(ext string, b []byte, cfg *Config) error {
	switch ext = strings.ToLower(ext); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	case ".json":
		return json.Unmarshal(b, cfg)
	case ".toml":
		return toml.Unmarshal(b, cfg)
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
}

// ApplyEnv overrides fields from RAGD_* environment variables.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("RAGD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("RAGD_GENERATOR"); v != "" {
		cfg.Engine.Generator = v
	}
	if v := os.Getenv("RAGD_SEED_DIR"); v != "" {
		cfg.Engine.SeedDir = v
	}
	if v := os.Getenv("RAGD_LLAMA_MODEL"); v != "" {
		cfg.Engine.Llama.ModelPath = v
	}
	if v := os.Getenv("RAGD_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.TopK = n
		}
	}
	if v := os.Getenv("RAGD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
