package action

import (
	"errors"
	"fmt"

	"github.com/tanq16/discord-installer/internal/args"
)

type Action string

const (
	Download Action = "download"
	Install  Action = "install"
	Link     Action = "link"
	Update   Action = "update"
	Help     Action = "help"
	Versions Action = "versions"
)

var ErrInvalidAction = errors.New("invalid action")

var known = []Action{Download, Install, Link, Update, Help, Versions}

// shortcut flags, checked in this order before --action/-a. Presence is
// enough; a value after the flag does not disable it.
var shortcuts = []struct {
	action Action
	short  string
}{
	{Download, ""},
	{Install, ""},
	{Link, ""},
	{Help, "h"},
}

func Select(p args.Parsed) (Action, error) {
	for _, s := range shortcuts {
		if p.Has(string(s.action), s.short) {
			return s.action, nil
		}
	}
	value, err := p.StringOr("action", "a", string(Download))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	for _, a := range known {
		if string(a) == value {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidAction, value)
}
