package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockTimeout    = 3 * time.Second
	lockRetryDelay = 50 * time.Millisecond
)

// FileBackend keeps the aggregate in a JSON file. Writes go to a temp file
// that is renamed into place, and a sidecar .lock file guards against other
// processes using the same file.
type FileBackend struct {
	path string
	lock *flock.Flock
}

func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{path: path, lock: flock.New(path + ".lock")}, nil
}

func (b *FileBackend) withLock(ctx context.Context, shared bool, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	var locked bool
	var err error
	if shared {
		locked, err = b.lock.TryRLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = b.lock.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire lock: %s is held by another process", b.lock.Path())
	}
	defer func() { _ = b.lock.Unlock() }()

	return fn()
}

func (b *FileBackend) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := b.withLock(ctx, true, func() error {
		raw, err := os.ReadFile(b.path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read data file: %w", err)
		}
		data = raw
		return nil
	})
	return data, err
}

func (b *FileBackend) Save(ctx context.Context, data []byte) error {
	return b.withLock(ctx, false, func() error {
		tmp := b.path + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return fmt.Errorf("write temp file: %w", err)
		}
		if err := os.Rename(tmp, b.path); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename data file: %w", err)
		}
		return nil
	})
}

func (b *FileBackend) Clear(ctx context.Context) error {
	return b.withLock(ctx, false, func() error {
		if err := os.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove data file: %w", err)
		}
		return nil
	})
}
