// Package store keeps game records as plain text files.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidName = errors.New("invalid record name")

// FileStore writes records under Dir, one file per game.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Save writes record verbatim to Dir/name.txt and returns the path.
func (s *FileStore) Save(name, record string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create record dir: %w", err)
	}
	path := filepath.Join(s.Dir, name+".txt")
	if err := os.WriteFile(path, []byte(record), 0o644); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}
	return path, nil
}

// Load reads a record file verbatim. It does not validate the contents.
func (s *FileStore) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read record: %w", err)
	}
	return string(data), nil
}
