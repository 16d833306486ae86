package output

import (
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // Default fallback width
	}
	return width
}

func textWidth(s string) int {
	return utf8.RuneCountInString(s)
}
