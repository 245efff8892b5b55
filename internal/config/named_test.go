package config

import (
	"errors"
	"slices"
	"testing"
)

func TestLoadNamed_Builtin(t *testing.T) {
	t.Setenv("RAGD_CONFIG_DIR", "")
	cfg, err := LoadNamed("default")
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Name != "default" || cfg.Engine.Generator != GeneratorExtractive || cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadNamed_EmptyMeansDefault(t *testing.T) {
	t.Setenv("RAGD_CONFIG_DIR", "")
	cfg, err := LoadNamed("")
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Name != DefaultName {
		t.Fatalf("name=%q", cfg.Name)
	}
}

func TestLoadNamed_LocalLLM(t *testing.T) {
	t.Setenv("RAGD_CONFIG_DIR", "")
	cfg, err := LoadNamed("local_llm")
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Engine.Generator != GeneratorLlama || cfg.Engine.Llama.ContextSize != 4096 {
		t.Fatalf("unexpected cfg: %+v", cfg.Engine)
	}
}

func TestLoadNamed_Unknown(t *testing.T) {
	t.Setenv("RAGD_CONFIG_DIR", "")
	for _, name := range []string{"nope", "../default", "a/b", ".."} {
		if _, err := LoadNamed(name); !errors.Is(err, ErrUnknownConfigName) {
			t.Fatalf("%q: err=%v", name, err)
		}
	}
}

func TestLoadNamed_OverrideDirWins(t *testing.T) {
	d := t.TempDir()
	writeTempFile(t, d, "default.yaml", "server:\n  addr: :6060\n")
	writeTempFile(t, d, "staging.json", `{"engine":{"top_k":2}}`)
	t.Setenv("RAGD_CONFIG_DIR", d)

	cfg, err := LoadNamed("default")
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Server.Addr != ":6060" {
		t.Fatalf("override not used: %+v", cfg.Server)
	}
	cfg, err = LoadNamed("staging")
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Engine.TopK != 2 || cfg.Name != "staging" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadNamed_InvalidFails(t *testing.T) {
	d := t.TempDir()
	writeTempFile(t, d, "broken.toml", "[engine]\ngenerator = \"nope\"\n")
	t.Setenv("RAGD_CONFIG_DIR", d)
	if _, err := LoadNamed("broken"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadNamed_EnvApplied(t *testing.T) {
	t.Setenv("RAGD_CONFIG_DIR", "")
	t.Setenv("RAGD_ADDR", ":5151")
	cfg, err := LoadNamed("default")
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Server.Addr != ":5151" {
		t.Fatalf("addr=%q", cfg.Server.Addr)
	}
}

func TestNames(t *testing.T) {
	d := t.TempDir()
	writeTempFile(t, d, "custom.yml", "log:\n  level: debug\n")
	writeTempFile(t, d, "notes.txt", "ignored")
	t.Setenv("RAGD_CONFIG_DIR", d)
	names := Names()
	for _, want := range []string{"custom", "default", "local_llm"} {
		if !slices.Contains(names, want) {
			t.Fatalf("missing %q in %v", want, names)
		}
	}
	if slices.Contains(names, "notes") {
		t.Fatalf("unexpected notes in %v", names)
	}
	if !slices.IsSorted(names) {
		t.Fatalf("not sorted: %v", names)
	}
}
