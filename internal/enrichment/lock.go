package enrichment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the lock file created next to the cache.
const LockFileName = "wikidata-cache.lock"

// ErrCacheLocked indicates another process holds the cache directory.
var ErrCacheLocked = errors.New("wikidata cache is locked by another process")

// AcquireLock takes an exclusive, non-blocking lock on dir. Callers must
// Unlock the returned lock when done.
func AcquireLock(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrCacheLocked, lock.Path())
	}
	return lock, nil
}
