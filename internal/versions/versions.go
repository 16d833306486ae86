package versions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/tanq16/discord-installer/internal/build"
)

const NotInstalled = "Not installed"

var (
	ErrMalformedBuildInfo = errors.New("malformed build info")
	ErrInvalidFormat      = errors.New("invalid format")
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidFormat, s)
}

type Entry struct {
	Build     string `json:"build" yaml:"build"`
	Title     string `json:"-" yaml:"-"`
	Version   string `json:"version" yaml:"version"`
	Installed bool   `json:"installed" yaml:"installed"`
}

type buildInfo struct {
	Version string `json:"version"`
}

// Report reads the installed version of every selected channel. root is
// prepended to each install directory.
func Report(sel build.Selection, root string) ([]Entry, error) {
	var entries []Entry
	for _, c := range sel.Channels() {
		e, err := read(c, root)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func read(c build.Channel, root string) (Entry, error) {
	entry := Entry{Build: c.String(), Title: c.Title(), Version: NotInstalled}
	path := filepath.Join(root, c.InstallDir(), "resources", "build_info.json")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("op", "versions/versions").Str("path", path).Msg("build info not found")
		return entry, nil
	}
	if err != nil {
		return entry, fmt.Errorf("error reading %s: %w", path, err)
	}
	var info buildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return entry, fmt.Errorf("%w in %s: %v", ErrMalformedBuildInfo, path, err)
	}
	entry.Version = info.Version
	entry.Installed = true
	return entry, nil
}

func Print(w io.Writer, entries []Entry, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "Current %s Version: %s\n", e.Title, e.Version); err != nil {
				return err
			}
		}
		return nil
	}
}
