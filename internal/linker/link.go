package linker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/tanq16/discord-installer/internal/build"
	"github.com/tanq16/discord-installer/internal/output"
	"github.com/tanq16/discord-installer/internal/utils"
)

var (
	ErrNoInstallDir  = errors.New("install directory does not exist")
	ErrNotReadable   = errors.New("directory is not readable")
	ErrNoExecutable  = errors.New("executable does not exist")
	ErrNoSymlinkDir  = errors.New("symlink directory does not exist")
	ErrLinkExists    = errors.New("link already exists")
	ErrLinkNotWanted = errors.New("refusing to replace a directory")
)

type Options struct {
	Build      build.Channel
	InstallDir string // defaults to the channel's install directory
	SymlinkDir string // defaults to /usr/bin
	// Force replaces whatever already sits at the link path.
	Force bool
	Out   io.Writer
}

func Link(opts Options) error {
	dir := opts.InstallDir
	if dir == "" {
		dir = opts.Build.InstallDir()
	}
	symlinkDir := opts.SymlinkDir
	if symlinkDir == "" {
		symlinkDir = utils.DefaultSymlinkDir
	}

	if !utils.Exists(dir) {
		return fmt.Errorf("install directory %s: %w", dir, ErrNoInstallDir)
	}
	if !utils.Readable(dir) {
		return fmt.Errorf("directory %s is not readable, please run as root (sudo): %w", dir, ErrNotReadable)
	}
	executable := filepath.Join(dir, opts.Build.ExecutableName())
	if !utils.Exists(executable) {
		return fmt.Errorf("executable %s: %w", executable, ErrNoExecutable)
	}
	if !utils.Exists(symlinkDir) {
		return fmt.Errorf("directory %s: %w", symlinkDir, ErrNoSymlinkDir)
	}

	linkPath := filepath.Join(symlinkDir, opts.Build.LinkName())
	fmt.Fprintln(opts.Out, output.FInfo(fmt.Sprintf("Linking %s to %s", executable, symlinkDir)))

	if utils.Lexists(linkPath) {
		done, err := replaceExisting(opts.Out, linkPath, executable, opts.Force)
		if err != nil {
			return err
		}
		if done {
			fmt.Fprintln(opts.Out, output.FSuccess(fmt.Sprintf("Linked %s to %s", executable, symlinkDir)))
			return nil
		}
	}

	if err := os.Symlink(executable, linkPath); err != nil {
		return fmt.Errorf("error creating link %s: %w", linkPath, err)
	}
	log.Debug().Str("op", "linker/link").Str("link", linkPath).Str("target", executable).Msg("symlink created")
	fmt.Fprintln(opts.Out, output.FSuccess(fmt.Sprintf("Linked %s to %s", executable, symlinkDir)))
	return nil
}

// replaceExisting deals with an entry already at linkPath. It reports done
// when the existing link already points at executable.
func replaceExisting(out io.Writer, linkPath, executable string, force bool) (bool, error) {
	if target, err := os.Readlink(linkPath); err == nil && target == executable {
		log.Debug().Str("op", "linker/link").Str("link", linkPath).Msg("link already up to date")
		return true, nil
	}
	if !force {
		return false, fmt.Errorf("%s (use --force to replace it): %w", linkPath, ErrLinkExists)
	}
	info, err := os.Lstat(linkPath)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s: %w", linkPath, ErrLinkNotWanted)
	}
	fmt.Fprintln(out, output.FWarning("Replacing existing "+linkPath))
	if err := os.Remove(linkPath); err != nil {
		return false, fmt.Errorf("error removing %s: %w", linkPath, err)
	}
	log.Debug().Str("op", "linker/link").Str("link", linkPath).Msg("replaced existing entry")
	return false, nil
}
