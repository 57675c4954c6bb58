// Package resource loads and saves glTF documents relative to a base directory.
package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

// Resource errors.
var (
	ErrOutsideBase   = errors.New("resource name escapes the base directory")
	ErrNotAccessible = errors.New("resource is not accessible")
)

// Store resolves logical resource names against a base directory.
type Store struct {
	base string
}

// NewStore returns a store rooted at base. The directory must exist.
func NewStore(base string) (*Store, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving base %s: %w", base, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAccessible, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotAccessible, abs)
	}
	return &Store{base: abs}, nil
}

// Base returns the absolute base directory.
func (s *Store) Base() string {
	return s.base
}

// Path resolves a resource name to an absolute path inside the base directory.
func (s *Store) Path(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", ErrOutsideBase, name)
	}
	return filepath.Join(s.base, name), nil
}

// Load parses a .gltf or .glb document together with its external buffers.
func (s *Store) Load(name string) (*gltf.Document, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAccessible, err)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return doc, nil
}

// Save writes doc under name. Binary output embeds the buffer in a GLB
// container; otherwise buffers with a relative URI are written next to it.
func (s *Store) Save(doc *gltf.Document, name string, binary bool) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrNotAccessible, err)
	}

	if binary || IsBinaryName(name) {
		err = gltf.SaveBinary(doc, path)
	} else {
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return nil
}

// IsBinaryName reports whether name has the .glb extension.
func IsBinaryName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".glb")
}

// BufferURI returns the external buffer file name for an output document,
// or "" when the buffer is embedded in a GLB container.
func BufferURI(outputName, bufferName string, binary bool) string {
	if binary || IsBinaryName(outputName) {
		return ""
	}
	return bufferName + ".bin"
}
