// Package storage provides the file access used for documents, prompt
// files and help text.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/bethropolis/vedit/internal/logger"
)

// FileStore reads and writes whole files on an afero filesystem.
type FileStore struct {
	fs afero.Fs
}

// NewFileStore wraps fs. A nil fs means the operating system filesystem.
func NewFileStore(fs afero.Fs) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileStore{fs: fs}
}

// NewMemStore returns a store backed by memory, for tests and scratch use.
func NewMemStore() *FileStore {
	return &FileStore{fs: afero.NewMemMapFs()}
}

// Fs exposes the underlying filesystem.
func (s *FileStore) Fs() afero.Fs { return s.fs }

// Read returns the content of path. exists is false, with a nil error,
// when the file is missing so a new document can be started.
func (s *FileStore) Read(path string) (data []byte, exists bool, err error) {
	data, err = afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("Storage: %s does not exist, starting empty", path)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read '%s': %w", path, err)
	}
	return data, true, nil
}

// Write replaces path with data, appending a final newline to non-empty
// content. The file is written to a temporary sibling first and renamed.
func (s *FileStore) Write(path string, data []byte) error {
	if path == "" {
		return errors.New("no file path specified for saving")
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	perm := os.FileMode(0o644)
	if info, err := s.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create '%s': %w", dir, err)
		}
	}
	tmp := path + ".vedit-tmp"
	if err := afero.WriteFile(s.fs, tmp, data, perm); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	logger.Debugf("Storage: wrote %d bytes to %s", len(data), path)
	return nil
}

// Exists reports whether path exists.
func (s *FileStore) Exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}
