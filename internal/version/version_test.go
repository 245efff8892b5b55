package version

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type failingSource struct{ err error }

func (s failingSource) Read() ([]byte, error) { return nil, s.err }

type panickingSource struct{}

func (panickingSource) Read() ([]byte, error) { panic("boom") }

func TestResolve_FromFile(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, MetadataFile)
	if err := os.WriteFile(p, []byte("[package]\nname = \"ragd\"\nversion = \"1.4.2\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res := Resolve(FileSource{Path: p}, zerolog.Nop())
	if res.Err != nil || res.Value != "1.4.2" {
		t.Fatalf("got %+v", res)
	}
	if res.String() != "1.4.2" {
		t.Fatalf("String()=%q", res.String())
	}
}

func TestResolve_Failures(t *testing.T) {
	cases := map[string]Source{
		"missing file":  FileSource{Path: "/definitely/not/here/package.toml"},
		"empty path":    FileSource{},
		"bad toml":      BytesSource("[package\nversion=1"),
		"missing field": BytesSource("[package]\nname = \"ragd\"\n"),
		"blank version": BytesSource("[package]\nversion = \"  \"\n"),
		"read error":    failingSource{err: errors.New("denied")},
		"panic":         panickingSource{},
		"nil source":    nil,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			res := Resolve(src, zerolog.New(&buf))
			if res.Value != Unknown {
				t.Fatalf("value=%q, want %q", res.Value, Unknown)
			}
			if res.Err == nil {
				t.Fatalf("expected reason in Err")
			}
			out := buf.String()
			if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "failed to read version") {
				t.Fatalf("missing warning log: %q", out)
			}
		})
	}
}

func TestGet_CachedOnce(t *testing.T) {
	Init(BytesSource("[package]\nversion = \"9.9.9\"\n"))
	first := Get()
	Init(BytesSource("[package]\nversion = \"0.0.1\"\n"))
	if second := Get(); second != first {
		t.Fatalf("version changed between calls: %q -> %q", first, second)
	}
	if first != "9.9.9" {
		t.Fatalf("Get()=%q", first)
	}
}
