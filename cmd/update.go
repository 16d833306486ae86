package cmd

import (
	"context"
	"io"

	"github.com/tanq16/discord-installer/internal/args"
	"github.com/tanq16/discord-installer/internal/updater"
)

func runUpdate(ctx context.Context, p args.Parsed, out io.Writer) error {
	c, err := resolveBuild(p)
	if err != nil {
		return err
	}
	dir, err := p.StringOr("install-directory", "d", c.InstallDir())
	if err != nil {
		return err
	}
	filename, err := p.StringOr("filename", "f", "")
	if err != nil {
		return err
	}
	// -d is the install directory here, so only the long form picks the
	// download directory.
	downloadDir, err := p.StringOr("download-directory", "", "")
	if err != nil {
		return err
	}
	d, err := newDownloader(p, out)
	if err != nil {
		return err
	}
	return updater.Update(ctx, d, updater.Options{
		Build:             c,
		InstallDir:        dir,
		Filename:          filename,
		DownloadDirectory: downloadDir,
		Out:               out,
	})
}
