package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestMain points RAGD_PACKAGE_TOML at a fixture so the version command
// reads known metadata instead of whatever sits next to the test binary.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "ragd-cmd")
	if err != nil {
		panic(err)
	}
	p := filepath.Join(dir, "package.toml")
	if err := os.WriteFile(p, []byte("[package]\nname = \"ragd\"\nversion = \"9.8.7\"\n"), 0o644); err != nil {
		panic(err)
	}
	os.Setenv("RAGD_PACKAGE_TOML", p)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}
