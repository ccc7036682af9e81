package burstpick

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// FileMover relocates files on the local filesystem. It never overwrites an
// existing destination and falls back to copy-then-remove when source and
// destination are on different devices.
type FileMover struct{}

// Move implements Mover.
func (FileMover) Move(src, destDir string) (string, error) {
	dst := filepath.Join(destDir, filepath.Base(src))

	if _, err := os.Lstat(dst); err == nil {
		return "", fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat destination: %w", err)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return dst, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return "", err
	}

	if err := moveByCopy(src, dst, os.Remove); err != nil {
		return "", err
	}
	return dst, nil
}

// moveByCopy copies src to dst and then removes src with remove. When src
// cannot be removed the copy is discarded, so a file never ends up in both
// places and a retry sees the same cause.
func moveByCopy(src, dst string, remove func(string) error) error {
	if err := copyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("copy across devices: %w", err)
	}
	if err := remove(src); err != nil {
		if rmErr := os.Remove(dst); rmErr != nil {
			return fmt.Errorf("remove source after copy: %w (copy left at %s: %w)", err, dst, rmErr)
		}
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// copyFile streams src to a new file dst, keeping the source permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// relocate moves src with one retry. The returned error wraps ErrRelocate.
func relocate(m Mover, src, destDir string) (string, error) {
	var err error
	for range 2 {
		var dst string
		if dst, err = m.Move(src, destDir); err == nil {
			return dst, nil
		}
	}
	return "", fmt.Errorf("%w: %s: %w", ErrRelocate, src, err)
}
