package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode used when none is known.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic replaces path with content: the bytes go to a sibling temp
// file which is renamed over path. Readers see either the old or the new
// file, never a partial one.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmpPath, err := writeTemp(filepath.Dir(path), filepath.Base(path), content, mode)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// writeTemp writes content to a fresh file in dir, synced and closed with
// mode applied, and returns its name. The file is removed on failure.
func writeTemp(dir, base string, content []byte, mode os.FileMode) (name string, err error) {
	f, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return "", err
	}
	name = f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	_, err = f.Write(content)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", err
	}
	if err = os.Chmod(name, mode.Perm()); err != nil {
		return "", err
	}
	return name, nil
}
