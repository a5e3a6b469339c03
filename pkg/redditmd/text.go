package redditmd

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	backslashEscapeRe = regexp.MustCompile("\\\\([`~*_\\-\\\\><\\]\\[^/#|)])")
	hardBreakRe       = regexp.MustCompile(` {2,}\n`)
)

// text is the plain-text leaf. It takes every character it is offered and
// answers textFallback so the owner keeps probing richer productions.
type text struct {
	buf      strings.Builder
	verbatim bool
	keepTabs bool
}

func (t *text) kind() kind              { return kindText }
func (t *text) canStart(*cursor) bool   { return true }
func (t *text) canConsume(*cursor) bool { return false }
func (t *text) consume(c *cursor) outcome {
	t.buf.WriteRune(c.ch)
	return textFallback
}

func (t *text) html() string {
	s := t.buf.String()
	if t.keepTabs {
		s = strings.ReplaceAll(s, "\t", "    ")
	} else {
		s = strings.ReplaceAll(s, "\t", " ")
	}
	if t.verbatim {
		return escapeHTML(s)
	}

	s = backslashEscapeRe.ReplaceAllString(s, "$1")
	s = escapeHTML(s)
	s = hardBreakRe.ReplaceAllString(s, "<br/>\n")
	return joinSoftBreaks(s)
}

// joinSoftBreaks collapses a newline and the whitespace before it into a
// single space, unless the newline is a hard break or nothing follows it on
// the next line.
func joinSoftBreaks(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	p := 0
	for p < len(s) {
		if end := softBreakAt(s, p); end > p {
			b.WriteByte(' ')
			p = end
			continue
		}
		_, sz := utf8.DecodeRuneInString(s[p:])
		b.WriteString(s[p : p+sz])
		p += sz
	}
	return b.String()
}

// softBreakAt returns the end of the soft break starting at p, or p when
// there is none. The break spans the longest run of whitespace from p that
// ends in a newline followed by a character on the same line.
func softBreakAt(s string, p int) int {
	if strings.HasSuffix(s[:p], "<br/>") {
		return p
	}
	end := p
	for i := p; i < len(s); {
		r, sz := utf8.DecodeRuneInString(s[i:])
		if !isSpace(r) {
			break
		}
		i += sz
		if r == '\n' && i < len(s) {
			if nr, _ := utf8.DecodeRuneInString(s[i:]); !isLineBreak(nr) {
				end = i
			}
		}
	}
	return end
}
