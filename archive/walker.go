// Package archive gives access to entries of zipped office packages.
package archive

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	fixzip "github.com/hidez8891/zip"
)

// ErrMissingEntry is returned when requested package entry does not exist.
var ErrMissingEntry = errors.New("package entry not found")

// WalkFunc is the type of the function called for each file in package
// visited by Walk. The file argument is the entry which satisfies match
// condition. If an error is returned, processing stops.
type WalkFunc func(file *fixzip.File) error

// Package is an opened zip package, entries are looked up by their full
// names.
type Package struct {
	path  string
	r     *fixzip.ReadCloser
	index map[string]*fixzip.File
}

// Open opens package and validates entry names. Entries with path traversal
// components ("..") or absolute paths make the whole package unsafe.
func Open(archive string) (*Package, error) {
	r, err := fixzip.OpenReader(archive)
	if err != nil {
		return nil, err
	}

	p := &Package{path: archive, r: r, index: make(map[string]*fixzip.File, len(r.File))}
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			r.Close()
			return nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() {
			p.index[name] = f
		}
	}
	return p, nil
}

// Path returns location package was opened from.
func (p *Package) Path() string {
	return p.path
}

// Close releases package.
func (p *Package) Close() error {
	return p.r.Close()
}

// Has reports whether package has entry.
func (p *Package) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Read returns complete content of the entry.
func (p *Package) Read(name string) ([]byte, error) {
	f, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntry, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", name, err)
	}
	return data, nil
}

// Walk walks all files in the package with names starting with prefix in
// the order they are stored, calling walkFn for each.
func (p *Package) Walk(prefix string, walkFn WalkFunc) error {
	for _, f := range p.r.File {
		if f.FileInfo().IsDir() || !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		if err := walkFn(f); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
