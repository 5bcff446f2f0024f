package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const fileLockRetry = 10 * time.Millisecond

// FileLocker serializes critical sections across every process sharing a data
// directory. Each key maps to an flock on <dir>/<key>.lock; every call opens
// its own descriptor, so goroutines in one process exclude each other too.
type FileLocker struct {
	dir string
}

func NewFileLocker(dir string) *FileLocker {
	return &FileLocker{dir: dir}
}

func (l *FileLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid lock key %q", key)
	}

	fl := flock.New(filepath.Join(l.dir, key+".lock"))
	ok, err := fl.TryLockContext(ctx, fileLockRetry)
	if err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("acquire file lock: %s held", key)
	}
	defer func() { _ = fl.Unlock() }()

	return fn(ctx)
}
