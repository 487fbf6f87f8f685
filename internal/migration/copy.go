package migration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNotRegularFile is returned when a copy source is a directory or device.
var ErrNotRegularFile = errors.New("not a regular file")

// dirPerm is used for parent directories created under the target root.
const dirPerm = 0o755

// CopyFile copies src to dst, creating missing parent directories.
// Permission bits and modification time of src are applied to dst.
// Content is staged in a temp file next to dst and renamed into place, so a
// failed copy never leaves a truncated target behind.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", src, ErrNotRegularFile)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(dst), dirPerm); mkdirErr != nil {
		return fmt.Errorf("creating parent of %s: %w", dst, mkdirErr)
	}

	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source %s: %w", src, err)
	}
	defer sourceFile.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", dst, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, copyErr := io.Copy(tmp, sourceFile); copyErr != nil {
		return fmt.Errorf("copying %s: %w", src, copyErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		return fmt.Errorf("closing temp file for %s: %w", dst, closeErr)
	}
	if chmodErr := os.Chmod(tmpName, info.Mode().Perm()); chmodErr != nil {
		return fmt.Errorf("setting mode on %s: %w", dst, chmodErr)
	}
	if chtimesErr := os.Chtimes(tmpName, info.ModTime(), info.ModTime()); chtimesErr != nil {
		return fmt.Errorf("setting times on %s: %w", dst, chtimesErr)
	}
	if renameErr := os.Rename(tmpName, dst); renameErr != nil {
		return fmt.Errorf("moving %s into place: %w", dst, renameErr)
	}
	committed = true
	return nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
