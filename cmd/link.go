package cmd

import (
	"io"

	"github.com/tanq16/discord-installer/internal/args"
	"github.com/tanq16/discord-installer/internal/linker"
	"github.com/tanq16/discord-installer/internal/utils"
)

func runLink(p args.Parsed, out io.Writer) error {
	c, err := resolveBuild(p)
	if err != nil {
		return err
	}
	dir, err := p.StringOr("install-directory", "d", c.InstallDir())
	if err != nil {
		return err
	}
	symlinkDir, err := p.StringOr("symlink-directory", "s", utils.DefaultSymlinkDir)
	if err != nil {
		return err
	}
	return linker.Link(linker.Options{
		Build:      c,
		InstallDir: dir,
		SymlinkDir: symlinkDir,
		Force:      p.Flag("force"),
		Out:        out,
	})
}
