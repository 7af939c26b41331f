package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// keyReplacer maps a key to a portable file name
var keyReplacer = strings.NewReplacer(":", "_", "/", "_", `\`, "_")

// FilesystemBackend stores each key as a JSON file under a root directory
type FilesystemBackend struct {
	root string
}

// NewFilesystem creates the root directory if needed
func NewFilesystem(root string) (*FilesystemBackend, error) {
	if root == "" {
		root = "saves"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FilesystemBackend{root: root}, nil
}

func (f *FilesystemBackend) Driver() Driver { return DriverFilesystem }

func (f *FilesystemBackend) path(key string) string {
	return filepath.Join(f.root, keyReplacer.Replace(key)+".json")
}

func (f *FilesystemBackend) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	return data, nil
}

// Put writes to a temporary file and renames it so a crash never leaves a torn save
func (f *FilesystemBackend) Put(_ context.Context, key string, data []byte) error {
	target := f.path(key)
	tmp, err := os.CreateTemp(f.root, ".save-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to replace save: %w", err)
	}
	return nil
}

func (f *FilesystemBackend) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

func (f *FilesystemBackend) Close() error { return nil }
