package cmd

import (
	"context"
	"io"

	"github.com/tanq16/discord-installer/internal/args"
	"github.com/tanq16/discord-installer/internal/build"
	"github.com/tanq16/discord-installer/internal/installer"
)

// installDirectory checks --directory, --install-directory and -d in that
// order before falling back to the channel default.
func installDirectory(p args.Parsed, c build.Channel) (string, error) {
	if dir, ok, err := p.String("directory", ""); err != nil || ok {
		return dir, err
	}
	return p.StringOr("install-directory", "d", c.InstallDir())
}

func runInstall(ctx context.Context, p args.Parsed, out io.Writer) error {
	file, _, err := p.String("file", "f")
	if err != nil {
		return err
	}
	c, err := resolveBuild(p)
	if err != nil {
		return err
	}
	dir, err := installDirectory(p, c)
	if err != nil {
		return err
	}
	return installer.Install(ctx, installer.Options{File: file, Build: c, Directory: dir, Out: out})
}
