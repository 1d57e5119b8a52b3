// Package store manages the ~/.initializr/ directory.
//
// Directory layout:
//
//	~/.initializr/
//	    settings.yaml                            # user configuration
//	    last_used_dependencies                   # global last-used ids
//	    last_used_dependencies-<bootVersion>     # per-version last-used ids
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const lastUsedFile = "last_used_dependencies"

// Store is a per-user storage root.
type Store struct {
	Dir string
}

// baseDir returns the ~/.initializr directory.
func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".initializr"), nil
}

// Default returns the store rooted at ~/.initializr. The directory is created
// lazily on first write.
func Default() (*Store, error) {
	dir, err := baseDir()
	if err != nil {
		return nil, err
	}
	return &Store{Dir: dir}, nil
}

// Open returns a store rooted at dir.
func Open(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the location of name inside the store.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// lastUsedPath returns the file holding the last-used ids for key. An empty
// key is the global slot.
func (s *Store) lastUsedPath(key string) string {
	if key == "" {
		return s.Path(lastUsedFile)
	}
	return s.Path(lastUsedFile + "-" + sanitize(key))
}

// ReadLastUsed returns the comma-joined dependency ids stored under key, or
// "" when nothing was stored yet.
func (s *Store) ReadLastUsed(key string) (string, error) {
	data, err := os.ReadFile(s.lastUsedPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read last used dependencies: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteLastUsed overwrites the ids stored under key.
func (s *Store) WriteLastUsed(key, ids string) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := WriteFile(s.lastUsedPath(key), []byte(ids), 0o644); err != nil {
		return fmt.Errorf("write last used dependencies: %w", err)
	}
	return nil
}

// WriteFile replaces path with data through a temporary sibling, so readers
// see either the old or the new content.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// sanitize keeps version keys usable as file name suffixes.
func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
}
