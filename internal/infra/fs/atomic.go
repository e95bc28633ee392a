package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFileAtomic writes data to path through a temp file in the same
// directory, syncs it and renames it over path. Readers see either the old
// content or the new one, never a partial write.
func WriteFileAtomic(afs afero.Fs, path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return fmt.Errorf("atomic write: path is empty")
	}
	dir := filepath.Dir(path)
	if err := afs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("atomic write: create %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(afs, dir, ".tmp-"+filepath.Base(path)+"-")
	if err != nil {
		return fmt.Errorf("atomic write: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = afs.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("atomic write: write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("atomic write: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("atomic write: close %s: %w", tmpName, err)
	}
	if err := afs.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("atomic write: chmod %s: %w", tmpName, err)
	}
	if err := afs.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("atomic write: rename to %s: %w", path, err)
	}
	return nil
}
