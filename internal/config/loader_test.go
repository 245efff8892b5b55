package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "server:\n  addr: :9999\nengine:\n  top_k: 3\n  chunk_size: 50\n  chunk_overlap: 5\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Server.Addr != ":9999" || cfg.Engine.TopK != 3 || cfg.Engine.ChunkSize != 50 || cfg.Engine.ChunkOverlap != 5 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	// untouched fields keep defaults
	if cfg.Engine.Generator != GeneratorExtractive || cfg.Server.MaxBodyBytes != Defaults().Server.MaxBodyBytes {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"server":{"addr":":7070"},"engine":{"generator":"llama","llama":{"model_path":"/m.gguf"}}}`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Server.Addr != ":7070" || cfg.Engine.Generator != GeneratorLlama || cfg.Engine.Llama.ModelPath != "/m.gguf" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Engine.Llama.Threads != 4 {
		t.Fatalf("nested default lost: %+v", cfg.Engine.Llama)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "[server]\naddr=\":8081\"\n[log]\nlevel=\"debug\"\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Server.Addr != ":8081" || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil { t.Fatalf("expected error on empty path") }
	if _, err := Load("/definitely/not/a/real/file-12345.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
	d := t.TempDir()
	cases := map[string]string{
		"cfg.txt":   "not supported",
		"bad.yaml":  "server: [\n",
		"bad.json":  `{ "server": }`,
		"bad.toml":  "[server\naddr",
	}
	for name, body := range cases {
		p := writeTempFile(t, d, name, body)
		if _, err := Load(p); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RAGD_ADDR", ":1234")
	t.Setenv("RAGD_GENERATOR", "llama")
	t.Setenv("RAGD_LLAMA_MODEL", "/x.gguf")
	t.Setenv("RAGD_SEED_DIR", "/docs")
	t.Setenv("RAGD_TOP_K", "9")
	t.Setenv("RAGD_LOG_LEVEL", "warn")
	cfg := Defaults()
	ApplyEnv(&cfg)
	if cfg.Server.Addr != ":1234" || cfg.Engine.Generator != "llama" || cfg.Engine.Llama.ModelPath != "/x.gguf" ||
		cfg.Engine.SeedDir != "/docs" || cfg.Engine.TopK != 9 || cfg.Log.Level != "warn" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestApplyEnv_BadIntIgnored(t *testing.T) {
	t.Setenv("RAGD_TOP_K", "many")
	cfg := Defaults()
	ApplyEnv(&cfg)
	if cfg.Engine.TopK != Defaults().Engine.TopK {
		t.Fatalf("top_k=%d", cfg.Engine.TopK)
	}
}
