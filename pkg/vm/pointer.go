package vm

import (
	"errors"
	"strings"
)

// Pointer errors, per RFC 6901.
var (
	// ErrInvalidPointer is returned when a string does not begin with "/"
	// and is not the empty string.
	ErrInvalidPointer = errors.New("vm: invalid pointer")

	// ErrInvalidEscape is returned when a pointer token contains a bare "~"
	// or a "~" followed by anything other than "0" or "1".
	ErrInvalidEscape = errors.New("vm: invalid pointer escape")
)

// Pointer joins tokens into an RFC 6901 JSON Pointer string, escaping "~"
// to "~0" and "/" to "~1" in each token. An empty token list yields "".
func Pointer(tokens ...string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(escape(t))
	}
	return b.String()
}

func escape(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, "~") {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '~' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", ErrInvalidEscape
		}
		switch s[i+1] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", ErrInvalidEscape
		}
		i++
	}
	return b.String(), nil
}

// ParsePointer splits an RFC 6901 pointer string into its unescaped tokens.
// The empty string denotes the document root and parses to an empty,
// non-nil slice.
func ParsePointer(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	if !strings.HasPrefix(s, "/") {
		return nil, ErrInvalidPointer
	}
	parts := strings.Split(s[1:], "/")
	tokens := make([]string, len(parts))
	for i, p := range parts {
		tok, err := unescape(p)
		if err != nil {
			return nil, err
		}
		tokens[i] = tok
	}
	return tokens, nil
}
