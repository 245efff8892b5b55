// Package registry turns a directory of text files into ingestible documents.
package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ragd/internal/common/fsutil"
	"ragd/pkg/types"
)

// Extensions scanned by LoadDir.
var Extensions = []string{".txt", ".md", ".markdown", ".rst"}

// MaxFileBytes caps the size of a single scanned file; larger files are skipped.
const MaxFileBytes = 4 << 20

// LoadDir walks dir for text files and builds one document per file.
// ID is the slash-separated path relative to dir; Title is the file name
// without extension. Blank (empty or whitespace-only) and oversized files
// are skipped.
func LoadDir(dir string) ([]types.Document, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var docs []types.Document
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != abs && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !fsutil.HasExt(d.Name(), Extensions...) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() == 0 || info.Size() > MaxFileBytes {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		if strings.TrimSpace(string(b)) == "" {
			return nil
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		name := d.Name()
		docs = append(docs, types.Document{
			ID:    filepath.ToSlash(rel),
			Title: strings.TrimSuffix(name, filepath.Ext(name)),
			Text:  string(b),
			Metadata: map[string]string{
				"source": p,
				"ext":    strings.ToLower(filepath.Ext(name)),
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
