package cmd

import (
	"fmt"
	"io"

	"github.com/tanq16/discord-installer/internal/args"
	"github.com/tanq16/discord-installer/internal/help"
)

func runHelp(p args.Parsed, out io.Writer) error {
	section, err := p.StringOr("section", "s", help.AllSections)
	if err != nil {
		return fmt.Errorf("%w. If you want to see the sections, use --section=sections, -s=sections, or don't specify a section", help.ErrInvalidSection)
	}
	return help.Print(out, section)
}
