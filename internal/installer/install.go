package installer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/tanq16/discord-installer/internal/build"
	"github.com/tanq16/discord-installer/internal/output"
	"github.com/tanq16/discord-installer/internal/utils"
)

var (
	ErrMissingFile = errors.New("missing file")
	ErrNoSource    = errors.New("source archive does not exist")
	ErrNotWritable = errors.New("directory is not writable")
)

// Discord tarballs wrap everything in a single Discord*/ folder.
const stripDepth = 1

type Options struct {
	File      string
	Build     build.Channel
	Directory string // defaults to the channel's install directory
	Out       io.Writer
}

func Install(ctx context.Context, opts Options) error {
	if opts.File == "" {
		return ErrMissingFile
	}
	dir := opts.Directory
	if dir == "" {
		dir = opts.Build.InstallDir()
	}
	if !utils.Exists(opts.File) {
		return fmt.Errorf("file %s does not exist: %w", opts.File, ErrNoSource)
	}
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("error creating install directory: %w", err)
	}
	if !utils.Writable(dir) {
		return fmt.Errorf("directory %s is not writable, please run as root (sudo): %w", dir, ErrNotWritable)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintln(opts.Out, output.FInfo(fmt.Sprintf("Installing %s to %s", opts.File, dir)))
	log.Debug().Str("op", "installer/install").Str("build", opts.Build.String()).Str("archive", opts.File).Str("dir", dir).Msg("extracting")

	if err := Extract(opts.File, dir, stripDepth); err != nil {
		return fmt.Errorf("error installing %s: %w", opts.File, err)
	}
	fmt.Fprintln(opts.Out, output.FSuccess(fmt.Sprintf("Installed %s to %s", opts.File, dir)))
	return nil
}
