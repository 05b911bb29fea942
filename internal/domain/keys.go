package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// KeyCode identifies the kind of a key press
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyEnter
	KeyTab
	KeyBackSpace
	KeyEsc
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyChar
	KeyCtrl
	KeyAlt
)

var keyCodeNames = map[KeyCode]string{
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackSpace: "BackSpace",
	KeyEsc:       "Esc",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
}

// Key is a decoded key press. Rune is only set for Char, Ctrl and Alt keys.
type Key struct {
	Code KeyCode
	Rune rune
}

// Named keys
var (
	Enter     = Key{Code: KeyEnter}
	Tab       = Key{Code: KeyTab}
	BackSpace = Key{Code: KeyBackSpace}
	Esc       = Key{Code: KeyEsc}
	Up        = Key{Code: KeyUp}
	Down      = Key{Code: KeyDown}
	Left      = Key{Code: KeyLeft}
	Right     = Key{Code: KeyRight}
	Unknown   = Key{Code: KeyUnknown}
)

// Char returns a plain character key
func Char(r rune) Key { return Key{Code: KeyChar, Rune: r} }

// Ctrl returns a control-modified character key
func Ctrl(r rune) Key { return Key{Code: KeyCtrl, Rune: r} }

// Alt returns an alt-modified character key
func Alt(r rune) Key { return Key{Code: KeyAlt, Rune: r} }

// String renders the key the way the debug pane shows it
func (k Key) String() string {
	switch k.Code {
	case KeyChar:
		if k.Rune == ' ' {
			return "<Space>"
		}
		return string(k.Rune)
	case KeyCtrl:
		return fmt.Sprintf("<Ctrl+%s>", runeName(k.Rune))
	case KeyAlt:
		return fmt.Sprintf("<Alt+%s>", runeName(k.Rune))
	case KeyUnknown:
		return "Unknown"
	default:
		return "<" + keyCodeNames[k.Code] + ">"
	}
}

func runeName(r rune) string {
	if r == ' ' {
		return "Space"
	}
	return string(r)
}

// ParseKey parses the String form of a key, e.g. "q", "<Esc>" or "<Ctrl+c>"
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Unknown, fmt.Errorf("empty key")
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return Char(r), nil
	}
	if !strings.HasPrefix(s, "<") || !strings.HasSuffix(s, ">") {
		return Unknown, fmt.Errorf("invalid key %q", s)
	}

	inner := s[1 : len(s)-1]
	if inner == "Space" {
		return Char(' '), nil
	}
	for code, name := range keyCodeNames {
		if inner == name {
			return Key{Code: code}, nil
		}
	}

	for prefix, code := range map[string]KeyCode{"Ctrl+": KeyCtrl, "Alt+": KeyAlt} {
		if !strings.HasPrefix(inner, prefix) {
			continue
		}
		rest := strings.TrimPrefix(inner, prefix)
		if rest == "Space" {
			return Key{Code: code, Rune: ' '}, nil
		}
		if utf8.RuneCountInString(rest) == 1 {
			r, _ := utf8.DecodeRuneInString(rest)
			return Key{Code: code, Rune: r}, nil
		}
	}

	return Unknown, fmt.Errorf("invalid key %q", s)
}
