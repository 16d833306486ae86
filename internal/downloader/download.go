package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tanq16/discord-installer/internal/build"
	"github.com/tanq16/discord-installer/internal/output"
	"github.com/tanq16/discord-installer/internal/utils"
)

var (
	ErrTooManyRedirects = errors.New("redirected more than once")
	ErrMissingLocation  = errors.New("redirect without a location")
	ErrBadStatus        = errors.New("unexpected http status")
)

type Options struct {
	Build     build.Channel
	Filename  string // defaults to discord-{build}-{unixMillis}.tar.gz
	Directory string // defaults to {cwd}/downloads
}

type Downloader struct {
	Client  utils.HTTPDoer
	BaseURL string
	Out     io.Writer
	Now     func() time.Time
	// ProgressOptions are handed to every progress bar this downloader creates.
	ProgressOptions []output.ProgressOption
}

func New(client utils.HTTPDoer, out io.Writer) *Downloader {
	return &Downloader{
		Client:  client,
		BaseURL: utils.DefaultBaseURL,
		Out:     out,
		Now:     time.Now,
	}
}

func DefaultFilename(c build.Channel, now time.Time) string {
	return fmt.Sprintf("discord-%s-%d.tar.gz", c, now.UnixMilli())
}

func DefaultDirectory() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("error resolving working directory: %w", err)
	}
	return filepath.Join(cwd, "downloads"), nil
}

// Download fetches the channel's tarball and returns the path it was saved to.
func (d *Downloader) Download(ctx context.Context, opts Options) (string, error) {
	logger := utils.GetLogger("downloader").With().Str("session", uuid.NewString()).Logger()

	filename := opts.Filename
	if filename == "" {
		filename = DefaultFilename(opts.Build, d.Now())
	}
	dir := opts.Directory
	if dir == "" {
		var err error
		if dir, err = DefaultDirectory(); err != nil {
			return "", err
		}
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("error creating download directory: %w", err)
	}
	downloadPath := filepath.Join(dir, filename)
	link := opts.Build.DownloadURL(d.BaseURL)

	fmt.Fprintln(d.Out, output.FInfo(fmt.Sprintf("Downloading %s to %s", link, downloadPath)))
	logger.Debug().Str("op", "downloader/download").Str("url", link).Str("path", downloadPath).Msg("starting download")

	resp, err := d.fetch(ctx, link, logger)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: %w", resp.Status, ErrBadStatus)
	}

	written, err := d.save(resp, filename, downloadPath)
	if err != nil {
		return "", err
	}
	logger.Debug().Str("op", "downloader/download").Str("size", utils.FormatBytes(uint64(written))).Msg("download complete")

	fmt.Fprintln(d.Out, output.FSuccess(fmt.Sprintf("Downloaded %s to %s", filename, dir)))
	return downloadPath, nil
}

// fetch issues the GET and follows at most one redirect hop.
func (d *Downloader) fetch(ctx context.Context, link string, logger zerolog.Logger) (*http.Response, error) {
	resp, err := d.get(ctx, link)
	if err != nil {
		return nil, err
	}
	if !isRedirect(resp.StatusCode) {
		return resp, nil
	}
	location, err := resp.Location()
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", resp.Status, ErrMissingLocation)
	}

	fmt.Fprintln(d.Out, output.FInfo("Redirecting to "+location.String()))
	logger.Debug().Str("op", "downloader/download").Str("location", location.String()).Msg("following redirect")

	resp, err = d.get(ctx, location.String())
	if err != nil {
		return nil, err
	}
	if isRedirect(resp.StatusCode) {
		resp.Body.Close()
		return nil, fmt.Errorf("%s to %s: %w", resp.Status, resp.Header.Get("Location"), ErrTooManyRedirects)
	}
	return resp, nil
}

func (d *Downloader) get(ctx context.Context, link string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating GET request: %w", err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing GET request: %w", err)
	}
	return resp, nil
}

func (d *Downloader) save(resp *http.Response, label, path string) (int64, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, utils.FileMode)
	if err != nil {
		return 0, fmt.Errorf("error creating output file: %w", err)
	}

	progress := output.NewProgress(d.Out, label, max(resp.ContentLength, 0), d.ProgressOptions...)
	progress.Start()
	defer progress.Stop()

	written, copyErr := io.Copy(progress.Writer(file), resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		return written, fmt.Errorf("error writing %s: %w", path, copyErr)
	}
	if closeErr != nil {
		return written, fmt.Errorf("error closing %s: %w", path, closeErr)
	}
	progress.Finish()
	return written, nil
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}
