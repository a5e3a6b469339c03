package redditmd

import (
	"errors"
	"strings"
)

// ToHTML converts markdown to an HTML fragment. Blocks are separated by a
// blank line; the result has no surrounding document.
//
// ToHTML panics with a *SelectionError if the grammar fails to select a
// production, which indicates a bug in this package rather than bad input.
func ToHTML(markdown string) string {
	c := newCursor(normalize(markdown))
	r := newRoot()
	for !c.done() {
		r.consume(c)
		c.advance()
	}
	return r.html()
}

// Convert is ToHTML for callers that prefer an error to a panic. Only a
// *SelectionError is recovered.
func Convert(markdown string) (html string, err error) {
	defer func() {
		if v := recover(); v != nil {
			var selErr *SelectionError
			e, ok := v.(error)
			if !ok || !errors.As(e, &selErr) {
				panic(v)
			}
			html, err = "", selErr
		}
	}()

	return ToHTML(markdown), nil
}

// normalize unifies line endings and strips the blank lines around the
// document together with trailing whitespace on its last line.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	start := 0
	for i, r := range s {
		if r == '\n' {
			start = i + 1
		} else if !isSpace(r) {
			break
		}
	}

	t := max(len(strings.TrimRightFunc(s, isSpace)), start)
	end := len(s)
	switch {
	case strings.HasSuffix(s, "\n") || t > 0 && s[t-1] == '\n':
		end = t
	default:
		if i := strings.IndexByte(s[t:], '\n'); i >= 0 {
			end = t + i + 1
		}
	}
	return s[start:end]
}
