package cmd

import (
	"context"
	"io"

	"github.com/tanq16/discord-installer/internal/args"
	"github.com/tanq16/discord-installer/internal/downloader"
)

func downloadOptions(p args.Parsed) (downloader.Options, error) {
	c, err := resolveBuild(p)
	if err != nil {
		return downloader.Options{}, err
	}
	filename, err := p.StringOr("filename", "f", "")
	if err != nil {
		return downloader.Options{}, err
	}
	dir, err := p.StringOr("download-directory", "d", "")
	if err != nil {
		return downloader.Options{}, err
	}
	return downloader.Options{Build: c, Filename: filename, Directory: dir}, nil
}

func runDownload(ctx context.Context, p args.Parsed, out io.Writer) error {
	opts, err := downloadOptions(p)
	if err != nil {
		return err
	}
	d, err := newDownloader(p, out)
	if err != nil {
		return err
	}
	_, err = d.Download(ctx, opts)
	return err
}
