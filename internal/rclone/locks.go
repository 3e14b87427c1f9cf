package rclone

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LockFiles returns any bisync lock files left in the workdir, sorted by
// name. An interrupted sync can leave these behind and block new runs.
func LockFiles(workdir string) ([]string, error) {
	if _, err := os.Stat(workdir); os.IsNotExist(err) {
		return nil, nil
	}

	matches, err := filepath.Glob(filepath.Join(workdir, "*.lck"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan workdir: %w", err)
	}

	sort.Strings(matches)
	return matches, nil
}

// ClearLocks removes stale bisync lock files from the workdir and returns how
// many were removed. Callers must ensure no sync is running.
func ClearLocks(workdir string) (int, error) {
	locks, err := LockFiles(workdir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, lock := range locks {
		if err := os.Remove(lock); err == nil {
			removed++
		}
	}
	return removed, nil
}
