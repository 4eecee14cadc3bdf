package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockRetryDelay is the polling interval while waiting for an export lock.
const LockRetryDelay = 50 * time.Millisecond

// WriteFileLocked writes path through fn while holding an advisory lock on
// path+".lock". Content goes to a temporary file that replaces path only
// when fn succeeds.
func WriteFileLocked(ctx context.Context, path string, fn func(io.Writer) error) error {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, LockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", path)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	buf := bufio.NewWriter(tmp)
	if err := fn(buf); err != nil {
		tmp.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
