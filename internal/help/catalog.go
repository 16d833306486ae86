package help

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrInvalidSection = errors.New("invalid section")

const (
	AllSections  = "all"
	sectionsName = "sections"
)

type entry struct {
	keys        []string
	description string
	required    bool
	def         string
}

type section struct {
	name    string
	entries []entry
}

// catalog is built once and only read afterwards.
var catalog = buildCatalog()

func buildCatalog() []section {
	sections := []section{
		{name: sectionsName, entries: []entry{
			{keys: []string{"--help", "-h"}, description: "Show this help message"},
			{keys: []string{"--section", "-s"}},
		}},
		{name: "main", entries: []entry{
			{keys: []string{"--action", "-a"}, description: "The action to perform. Can be one of download, install, link, update, help, or versions", def: "download"},
			{keys: []string{"--version"}, description: "Print the installer version"},
			{keys: []string{"--debug"}, description: "Print diagnostic logs to stderr"},
			{keys: []string{"--base-url"}, description: "The server to download builds from", def: "https://discord.com"},
			{keys: []string{"--user-agent"}, description: "The User-Agent header sent with download requests", def: "discord-installer"},
			{keys: []string{"--proxy"}, description: "Proxy URL for download requests\nFalls back to HTTP_PROXY/HTTPS_PROXY"},
			{keys: []string{"--proxy-username"}, description: "Proxy username, if not given in the proxy URL"},
			{keys: []string{"--proxy-password"}, description: "Proxy password, if not given in the proxy URL"},
			{keys: []string{"--timeout"}, description: "Overall download timeout, e.g. 90s or 5m\n0 disables it", def: "0"},
		}},
		{name: "download", entries: []entry{
			{keys: []string{"--build", "-b"}, description: "The build to download. Can either be stable, canary, or ptb", def: "stable"},
			{keys: []string{"--filename", "-f"}, description: "The filename to download to", def: "discord-{build}-{timestamp}.tar.gz"},
			{keys: []string{"--download-directory", "-d"}, description: "The directory the file will be downloaded to", def: "cwd/downloads"},
		}},
		{name: "install", entries: []entry{
			{keys: []string{"--file", "-f"}, description: "The file to install from", required: true},
			{keys: []string{"--build", "-b"}, description: "The build to install. Can either be stable, canary, or ptb", def: "stable"},
			{keys: []string{"--install-directory", "-d"}, description: "The directory to install to", def: "/opt/discord"},
		}},
		{name: "link", entries: []entry{
			{keys: []string{"--build", "-b"}, description: "The build to link. Can either be stable, canary, or ptb", def: "stable"},
			{keys: []string{"--install-directory", "-d"}, description: "The directory to link from", def: "/opt/discord"},
			{keys: []string{"--symlink-directory", "-s"}, description: "The directory to link to", def: "/usr/bin"},
			{keys: []string{"--force"}, description: "Replace an existing file or link with the same name"},
		}},
		{name: "update", entries: []entry{
			{keys: []string{"--build", "-b"}, description: "The build to update. Can either be stable, canary, or ptb", def: "stable"},
			{keys: []string{"--install-directory", "-d"}, description: "The directory to update", def: "/opt/discord"},
			{keys: []string{"--filename", "-f"}, description: "The filename to download the update to", def: "discord-{build}-{timestamp}.tar.gz"},
			{keys: []string{"--download-directory"}, description: "The directory the update will be downloaded to", def: "cwd/downloads"},
		}},
		{name: "versions", entries: []entry{
			{keys: []string{"--build", "-b"}, description: "The build to get versions for. Can either be stable, canary, ptb, or all", def: "all"},
			{keys: []string{"--format"}, description: "Output format. Can be one of text, json, or yaml", def: "text"},
		}},
	}

	names := make([]string, 0, len(sections))
	for _, s := range sections {
		names = append(names, s.name)
	}
	sections[0].entries[1].description = "Show a specific section. Can be one of: " + strings.Join(names, ", ")
	return sections
}

// Names lists the section names in display order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, s := range catalog {
		names = append(names, s.name)
	}
	return names
}

// Print writes one section, or every section when name is "all".
func Print(w io.Writer, name string) error {
	if name == AllSections {
		fmt.Fprintf(w, "All sections:\n\n")
		for _, s := range catalog {
			printSection(w, s)
		}
		return nil
	}
	for _, s := range catalog {
		if s.name == name {
			printSection(w, s)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidSection, name)
}

func printSection(w io.Writer, s section) {
	fmt.Fprintln(w, s.name)
	for _, e := range s.entries {
		var b strings.Builder
		b.WriteString("  " + strings.Join(e.keys, ", ") + ":")
		if e.required {
			b.WriteString(" (required)")
		}
		if e.def != "" {
			b.WriteString(" (default: " + e.def + ")")
		}
		fmt.Fprintln(w, b.String())
		for _, line := range strings.Split(e.description, "\n") {
			fmt.Fprintln(w, "    "+line)
		}
	}
	fmt.Fprintln(w)
}
