package args

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotString = errors.New("expected a value, got a bare flag")

// Value is either a string or a boolean presence flag.
type Value struct {
	Str    string
	IsBool bool
}

type Parsed struct {
	Long  map[string]Value
	Short map[string]Value
}

func Parse(tokens []string) Parsed {
	p := Parsed{
		Long:  make(map[string]Value),
		Short: make(map[string]Value),
	}
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		var key string
		var target map[string]Value
		switch {
		case strings.HasPrefix(token, "--"):
			key, target = token[2:], p.Long
		case strings.HasPrefix(token, "-"):
			key, target = token[1:], p.Short
		default:
			continue
		}
		if k, v, found := strings.Cut(key, "="); found {
			target[k] = Value{Str: v}
		} else if i+1 < len(tokens) && tokens[i+1] != "" && !strings.HasPrefix(tokens[i+1], "-") {
			target[key] = Value{Str: tokens[i+1]}
			i++
		} else {
			target[key] = Value{IsBool: true}
		}
	}
	return p
}

// String looks up a string flag by its long name and then its short name.
// A bare boolean occurrence is reported as ErrNotString.
func (p Parsed) String(long, short string) (string, bool, error) {
	v, ok := p.lookup(long, short)
	if !ok {
		return "", false, nil
	}
	if v.IsBool {
		name := "--" + long
		if _, inLong := p.Long[long]; !inLong {
			name = "-" + short
		}
		return "", true, fmt.Errorf("%s: %w", name, ErrNotString)
	}
	return v.Str, true, nil
}

// StringOr is String with a fallback for absent flags.
func (p Parsed) StringOr(long, short, def string) (string, error) {
	v, ok, err := p.String(long, short)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Flag reports whether --long was given as a boolean.
func (p Parsed) Flag(long string) bool {
	v, ok := p.Long[long]
	return ok && v.IsBool
}

// Has reports whether the flag was given in either form, with or without a value.
func (p Parsed) Has(long, short string) bool {
	_, ok := p.lookup(long, short)
	return ok
}

func (p Parsed) lookup(long, short string) (Value, bool) {
	if long != "" {
		if v, ok := p.Long[long]; ok {
			return v, true
		}
	}
	if short != "" {
		if v, ok := p.Short[short]; ok {
			return v, true
		}
	}
	return Value{}, false
}
