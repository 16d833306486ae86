package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Lexists is Exists without following a trailing symlink.
func Lexists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Writable asks the kernel whether the current user may write to path,
// the same check access(2) with W_OK performs.
func Writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}

func Readable(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}

// EnsureDir creates path and its parents when it does not exist yet.
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", path)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.MkdirAll(path, DirMode)
}
