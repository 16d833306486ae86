package cmd

import (
	"fmt"
	"io"

	"github.com/tanq16/discord-installer/internal/args"
	"github.com/tanq16/discord-installer/internal/build"
	"github.com/tanq16/discord-installer/internal/versions"
)

// versionsRoot prefixes every install directory read by the versions action.
var versionsRoot = ""

func runVersions(p args.Parsed, out io.Writer) error {
	name, err := p.StringOr("build", "b", build.AllName)
	if err != nil {
		return fmt.Errorf("%w: %v", build.ErrInvalidBuild, err)
	}
	sel, err := build.ParseSelection(name)
	if err != nil {
		return err
	}
	rawFormat, err := p.StringOr("format", "", string(versions.FormatText))
	if err != nil {
		return err
	}
	format, err := versions.ParseFormat(rawFormat)
	if err != nil {
		return err
	}
	entries, err := versions.Report(sel, versionsRoot)
	if err != nil {
		return err
	}
	return versions.Print(out, entries, format)
}
