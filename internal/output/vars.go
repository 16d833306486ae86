package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("37"))            // dark green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))            // yellow
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))            // cyan
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")) // purple
)

// progressGlyphs are the eight fill levels of a bar cell, emptiest first.
var progressGlyphs = []string{"⡀", "⡄", "⡆", "⡇", "⡏", "⡟", "⡿", "⣿"}

const (
	cursorHome = "\033[1G"
	clearLine  = "\033[0K"
)

func PrintError(text string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(text))
}
func FSuccess(text string) string {
	return successStyle.Render(text)
}
func FWarning(text string) string {
	return warningStyle.Render(text)
}
func FInfo(text string) string {
	return infoStyle.Render(text)
}
func FHeader(text string) string {
	return headerStyle.Render(text)
}
