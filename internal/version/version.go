// Package version resolves the ragd version string from packaging metadata.
//
// Resolution is best effort: any failure is logged at warning level and
// degrades to Unknown. Nothing in this package returns an error to callers.
package version

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Unknown is reported when the version cannot be read.
const Unknown = "unknown"

// MetadataFile is the packaging metadata file name.
const MetadataFile = "package.toml"

// Source yields raw packaging metadata.
type Source interface {
	Read() ([]byte, error)
}

// FileSource reads metadata from a file path.
type FileSource struct {
	Path string
}

func (s FileSource) Read() ([]byte, error) {
	if s.Path == "" {
		return nil, errors.New("empty metadata path")
	}
	return os.ReadFile(s.Path)
}

// BytesSource serves fixed metadata, mainly for tests and embedding.
type BytesSource []byte

func (s BytesSource) Read() ([]byte, error) { return []byte(s), nil }

// DefaultSource locates package.toml one directory above the directory
// holding the running executable (<prefix>/bin/ragd -> <prefix>/package.toml).
func DefaultSource() Source {
	exe, err := os.Executable()
	if err != nil {
		return errSource{err: fmt.Errorf("locate executable: %w", err)}
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return FileSource{Path: filepath.Join(filepath.Dir(exe), "..", MetadataFile)}
}

type errSource struct{ err error }

func (s errSource) Read() ([]byte, error) { return nil, s.err }

// Result is the outcome of a lookup. Err is nil only when Value was read
// from metadata.
type Result struct {
	Value string
	Err   error
}

func (r Result) String() string { return r.Value }

// metadata mirrors the part of package.toml we care about.
type metadata struct {
	Package struct {
		Version string `toml:"version"`
	} `toml:"package"`
}

// Resolve reads package.version from src. Failures are logged on logger and
// yield Unknown.
func Resolve(src Source, logger zerolog.Logger) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = degrade(logger, fmt.Errorf("panic reading metadata: %v", r))
		}
	}()
	if src == nil {
		return degrade(logger, errors.New("no metadata source"))
	}
	b, err := src.Read()
	if err != nil {
		return degrade(logger, err)
	}
	var md metadata
	if err := toml.Unmarshal(b, &md); err != nil {
		return degrade(logger, fmt.Errorf("parse %s: %w", MetadataFile, err))
	}
	v := strings.TrimSpace(md.Package.Version)
	if v == "" {
		return degrade(logger, fmt.Errorf("%s: missing package.version", MetadataFile))
	}
	return Result{Value: v}
}

func degrade(logger zerolog.Logger, err error) Result {
	logger.Warn().Err(err).Msg("failed to read version from packaging metadata")
	return Result{Value: Unknown, Err: err}
}

var (
	once    sync.Once
	initSrc Source
	current Result
	mu      sync.Mutex
)

// Init selects the source used by the first Get. It has no effect once Get
// has run.
func Init(src Source) {
	mu.Lock()
	defer mu.Unlock()
	initSrc = src
}

// Get returns the process-wide version, resolving it on first use.
func Get() string { return Lookup().Value }

// Lookup returns the process-wide Result, resolving it on first use.
func Lookup() Result {
	once.Do(func() {
		mu.Lock()
		src := initSrc
		mu.Unlock()
		if src == nil {
			src = DefaultSource()
		}
		current = Resolve(src, log.Logger)
	})
	return current
}
