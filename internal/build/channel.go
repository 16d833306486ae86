package build

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

type Channel int

const (
	Stable Channel = iota
	Canary
	PTB
)

const AllName = "all"

var ErrInvalidBuild = errors.New("invalid build")

type channelInfo struct {
	name       string
	title      string
	dirName    string
	executable string
}

var channels = [...]channelInfo{
	Stable: {name: "stable", title: "Stable", dirName: "discord", executable: "Discord"},
	Canary: {name: "canary", title: "Canary", dirName: "discordcanary", executable: "DiscordCanary"},
	PTB:    {name: "ptb", title: "PTB", dirName: "discordptb", executable: "DiscordPTB"},
}

// InstallRoot is the parent of every channel's default install directory.
const InstallRoot = "/opt"

func All() []Channel {
	return []Channel{Stable, Canary, PTB}
}

func Parse(s string) (Channel, error) {
	for i, c := range channels {
		if c.name == s {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidBuild, s)
}

// Selection is a single channel or every channel.
type Selection struct {
	All     bool
	Channel Channel
}

func ParseSelection(s string) (Selection, error) {
	if s == AllName {
		return Selection{All: true}, nil
	}
	c, err := Parse(s)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Channel: c}, nil
}

func (s Selection) Channels() []Channel {
	if s.All {
		return All()
	}
	return []Channel{s.Channel}
}

func (c Channel) String() string {
	return c.info().name
}

// Title is the display name used in version reports.
func (c Channel) Title() string {
	return c.info().title
}

// LinkName is the launcher name placed in the symlink directory.
func (c Channel) LinkName() string {
	return c.info().dirName
}

func (c Channel) ExecutableName() string {
	return c.info().executable
}

// InstallDir is the default install directory, e.g. /opt/discordcanary.
func (c Channel) InstallDir() string {
	return filepath.Join(InstallRoot, c.info().dirName)
}

// DownloadURL builds the tarball endpoint for this channel under base.
func (c Channel) DownloadURL(base string) string {
	return fmt.Sprintf("%s/api/download/%s?platform=linux&format=tar.gz", strings.TrimRight(base, "/"), url.PathEscape(c.info().name))
}

func (c Channel) info() channelInfo {
	if c < 0 || int(c) >= len(channels) {
		return channels[Stable]
	}
	return channels[c]
}
