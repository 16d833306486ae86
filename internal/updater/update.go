package updater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/tanq16/discord-installer/internal/build"
	"github.com/tanq16/discord-installer/internal/downloader"
	"github.com/tanq16/discord-installer/internal/installer"
	"github.com/tanq16/discord-installer/internal/output"
	"github.com/tanq16/discord-installer/internal/utils"
)

var (
	ErrMissingDir  = errors.New("directory does not exist")
	ErrNotWritable = errors.New("directory is not writable")
)

type Options struct {
	Build             build.Channel
	InstallDir        string // defaults to the channel's install directory
	Filename          string
	DownloadDirectory string
	Out               io.Writer
}

// Fetcher is the download half of an update.
type Fetcher interface {
	Download(ctx context.Context, opts downloader.Options) (string, error)
}

// Update downloads a fresh tarball and installs it over an existing install.
// A failed install is not rolled back.
func Update(ctx context.Context, fetcher Fetcher, opts Options) error {
	dir := opts.InstallDir
	if dir == "" {
		dir = opts.Build.InstallDir()
	}
	if !utils.Exists(dir) {
		return fmt.Errorf("%s: %w", dir, ErrMissingDir)
	}
	binDir := filepath.Join(dir, "bin")
	if !utils.Exists(binDir) {
		return fmt.Errorf("%s: %w", binDir, ErrMissingDir)
	}
	if !utils.Writable(binDir) {
		return fmt.Errorf("directory %s is not writable, please run as root (sudo): %w", binDir, ErrNotWritable)
	}

	fmt.Fprintln(opts.Out, output.FInfo("Updating "+binDir))
	log.Debug().Str("op", "updater/update").Str("build", opts.Build.String()).Str("dir", dir).Msg("starting update")

	archive, err := fetcher.Download(ctx, downloader.Options{
		Build:     opts.Build,
		Filename:  opts.Filename,
		Directory: opts.DownloadDirectory,
	})
	if err != nil {
		return fmt.Errorf("error downloading update: %w", err)
	}
	return installer.Install(ctx, installer.Options{
		File:      archive,
		Build:     opts.Build,
		Directory: dir,
		Out:       opts.Out,
	})
}
