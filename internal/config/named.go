package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"ragd/internal/common/fsutil"
)

//go:embed configs/*.toml
var builtin embed.FS

// ErrUnknownConfigName is returned when no configuration exists under a name.
var ErrUnknownConfigName = errors.New("unknown config name")

// overrideExts lists the extensions searched in the override directory, in order.
var overrideExts = []string{".toml", ".yaml", ".yml", ".json"}

// OverrideDir returns the directory holding user-provided named configs
// (RAGD_CONFIG_DIR), with '~' expanded. Empty when unset.
func OverrideDir() string {
	dir := os.Getenv("RAGD_CONFIG_DIR")
	if dir == "" {
		return ""
	}
	if p, err := fsutil.ExpandHome(dir); err == nil {
		return p
	}
	return dir
}

// LoadNamed resolves a symbolic configuration name. Files in OverrideDir win
// over the built-in set. Environment overrides are applied and the result is
// validated.
func LoadNamed(name string) (Config, error) {
	if name == "" {
		name = DefaultName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownConfigName, name)
	}
	cfg, err := findNamed(name)
	if err != nil {
		return cfg, err
	}
	cfg.Name = name
	ApplyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", name, err)
	}
	return cfg, nil
}

func findNamed(name string) (Config, error) {
	if dir := OverrideDir(); dir != "" {
		for _, ext := range overrideExts {
			p := filepath.Join(dir, name+ext)
			if fsutil.PathExists(p) {
				return Load(p)
			}
		}
	}
	b, err := builtin.ReadFile(path.Join("configs", name+".toml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %q", ErrUnknownConfigName, name)
		}
		return Config{}, err
	}
	cfg := Defaults()
	if err := decode(".toml", b, &cfg); err != nil {
		return cfg, fmt.Errorf("built-in config %q: %w", name, err)
	}
	return cfg, nil
}

// Names lists every resolvable configuration name, sorted.
func Names() []string {
	seen := map[string]bool{}
	if entries, err := builtin.ReadDir("configs"); err == nil {
		for _, e := range entries {
			seen[strings.TrimSuffix(e.Name(), ".toml")] = true
		}
	}
	if dir := OverrideDir(); dir != "" {
		if entries, err := os.ReadDir(dir); err == nil {
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				ext := strings.ToLower(filepath.Ext(e.Name()))
				for _, want := range overrideExts {
					if ext == want {
						seen[strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))] = true
					}
				}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
