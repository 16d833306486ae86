package utils

const (
	ToolUserAgent  = "discord-installer"
	DefaultBaseURL = "https://discord.com"

	// DefaultSymlinkDir is where launchers are linked on Linux.
	DefaultSymlinkDir = "/usr/bin"

	DirMode  = 0755
	FileMode = 0644
)
