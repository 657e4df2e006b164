package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/chrisdamba/besteats/internal/repositories"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// SlotRepository stores every slot as <dir>/<key>.json, the on-disk counterpart of a browser profile.
type SlotRepository struct {
	dir string
}

func NewSlotRepository(dir string) (*SlotRepository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create profile directory %s: %w", dir, err)
	}
	return &SlotRepository{dir: dir}, nil
}

func (r *SlotRepository) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid slot key %q", key)
	}
	return filepath.Join(r.dir, key+".json"), nil
}

func (r *SlotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	path, err := r.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, repositories.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return data, nil
}

// Save writes through a temp file and a rename so readers never observe a half-written slot.
func (r *SlotRepository) Save(ctx context.Context, key string, value []byte) error {
	path, err := r.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(r.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for slot %s: %w", key, err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close slot %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace slot %s: %w", key, err)
	}
	return nil
}
