package installer

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tanq16/discord-installer/internal/utils"
)

var ErrUnsafeEntry = errors.New("archive entry escapes target directory")

// Extract unpacks a gzip-compressed tarball into targetDir, dropping the first
// strip path components of every entry. Entries left with no path are skipped.
func Extract(archivePath, targetDir string, strip int) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("error opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("error reading gzip stream: %w", err)
	}
	defer gz.Close()

	if err := utils.EnsureDir(targetDir); err != nil {
		return err
	}
	root, err := filepath.EvalSymlinks(targetDir)
	if err != nil {
		return err
	}
	if root, err = filepath.Abs(root); err != nil {
		return err
	}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading tar entry: %w", err)
		}
		name, ok := stripComponents(hdr.Name, strip)
		if !ok {
			continue
		}
		dest := filepath.Join(root, name)
		if !within(root, dest) || !resolvesWithin(root, filepath.Dir(dest)) {
			return fmt.Errorf("%s: %w", hdr.Name, ErrUnsafeEntry)
		}
		if err := writeEntry(tr, hdr, root, dest, strip); err != nil {
			return fmt.Errorf("error extracting %s: %w", hdr.Name, err)
		}
		log.Debug().Str("op", "installer/extract").Str("entry", name).Msg("extracted")
	}
}

func writeEntry(tr *tar.Reader, hdr *tar.Header, root, dest string, strip int) error {
	mode := hdr.FileInfo().Mode().Perm()
	switch hdr.Typeflag {
	case tar.TypeDir:
		// an earlier symlink entry may already sit at dest
		if !resolvesWithin(root, dest) {
			return ErrUnsafeEntry
		}
		if err := os.MkdirAll(dest, utils.DirMode); err != nil {
			return err
		}
		return os.Chmod(dest, mode|0700)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(dest), utils.DirMode); err != nil {
			return err
		}
		if err := removeSymlink(dest); err != nil {
			return err
		}
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		return os.Chmod(dest, mode)
	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(dest), utils.DirMode); err != nil {
			return err
		}
		if utils.Lexists(dest) {
			if err := os.Remove(dest); err != nil {
				return err
			}
		}
		return os.Symlink(hdr.Linkname, dest)
	case tar.TypeLink:
		target, ok := stripComponents(hdr.Linkname, strip)
		if !ok {
			return fmt.Errorf("hard link target %s: %w", hdr.Linkname, ErrUnsafeEntry)
		}
		src := filepath.Join(root, target)
		if !within(root, src) || !resolvesWithin(root, filepath.Dir(src)) {
			return fmt.Errorf("hard link target %s: %w", hdr.Linkname, ErrUnsafeEntry)
		}
		if utils.Lexists(dest) {
			if err := os.Remove(dest); err != nil {
				return err
			}
		}
		return os.Link(src, dest)
	default:
		log.Debug().Str("op", "installer/extract").Str("entry", hdr.Name).Msgf("skipping entry type %q", hdr.Typeflag)
		return nil
	}
}

func stripComponents(name string, strip int) (string, bool) {
	parts := strings.Split(strings.Trim(filepath.ToSlash(name), "/"), "/")
	var kept []string
	for _, p := range parts {
		if p != "" && p != "." {
			kept = append(kept, p)
		}
	}
	if len(kept) <= strip {
		return "", false
	}
	return filepath.Join(kept[strip:]...), true
}

// resolvesWithin follows symlinks in the deepest existing ancestor of path
// and reports whether the result is still inside root.
func resolvesWithin(root, path string) bool {
	existing := path
	for !utils.Lexists(existing) {
		parent := filepath.Dir(existing)
		if parent == existing {
			return false
		}
		existing = parent
	}
	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return false
	}
	return within(root, resolved)
}

// removeSymlink drops a symlink at path so that a file entry replaces the
// link rather than writing through it.
func removeSymlink(path string) error {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	return os.Remove(path)
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
