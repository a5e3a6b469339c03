package redditmd

import (
	"strings"
	"unicode/utf8"
)

// cursor is the single read position shared by every production of a parse.
//
// Only the driving loop in ToHTML calls advance. Productions may narrow the
// line views (line and next) to hide prefixes they own, such as a quote
// marker or list indentation; the narrowing never moves the position itself
// and is reset whenever the cursor enters a new row.
type cursor struct {
	src  string
	pos  int // byte offset of ch
	ch   rune
	size int
	prev rune // 0 before the first character

	rows []string // source lines, each terminated by "\n"
	row  int
	col  int // rune column relative to the current line view

	line    string
	lineLen int
	next    string // "" when there is no next row

	// newNode tells a freshly dispatched child that it starts a new
	// HTML node context. Cleared by advance.
	newNode bool
}

func newCursor(src string) *cursor {
	parts := strings.Split(src, "\n")
	rows := make([]string, len(parts))
	for i, p := range parts {
		rows[i] = p + "\n"
	}

	c := &cursor{src: src, rows: rows}
	c.enterRow(0)
	c.decode()

	return c
}

func (c *cursor) enterRow(row int) {
	c.row = row
	c.col = 0
	c.line, c.next = "", ""
	if row < len(c.rows) {
		c.line = c.rows[row]
	}
	if row+1 < len(c.rows) {
		c.next = c.rows[row+1]
	}
	c.lineLen = utf8.RuneCountInString(c.line)
}

func (c *cursor) decode() {
	if c.pos >= len(c.src) {
		c.ch, c.size = 0, 0
		return
	}
	c.ch, c.size = utf8.DecodeRuneInString(c.src[c.pos:])
}

// advance moves the cursor one character forward.
func (c *cursor) advance() {
	c.prev = c.ch
	c.pos += c.size
	c.col++
	c.newNode = false
	c.decode()

	if c.col == c.lineLen {
		c.enterRow(c.row + 1)
	}
}

func (c *cursor) done() bool { return c.pos >= len(c.src) }

// remaining returns the unconsumed text starting at the current character.
func (c *cursor) remaining() string { return c.src[c.pos:] }

// consumed returns all text before the current character.
func (c *cursor) consumed() string { return c.src[:c.pos] }

// last reports whether the current character is the final one.
func (c *cursor) last() bool { return c.pos+c.size == len(c.src) }

// peek returns the i-th character of the remaining text, or 0 past the end.
func (c *cursor) peek(i int) rune {
	rest := c.src[c.pos:]
	for ; i > 0; i-- {
		if rest == "" {
			return 0
		}
		_, sz := utf8.DecodeRuneInString(rest)
		rest = rest[sz:]
	}
	if rest == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return r
}

// trimLine hides the first n characters of the current line view. The
// column shifts with the view so the row still ends at the same place.
func (c *cursor) trimLine(n int) {
	c.line = dropRunes(c.line, n)
	c.lineLen = utf8.RuneCountInString(c.line)
	c.col -= n
}

// trimNext hides the first n characters of the next line view.
func (c *cursor) trimNext(n int) {
	c.next = dropRunes(c.next, n)
}

// setNext replaces the next line view until the cursor changes rows.
func (c *cursor) setNext(s string) {
	c.next = s
}

func dropRunes(s string, n int) string {
	for ; n > 0 && s != ""; n-- {
		_, sz := utf8.DecodeRuneInString(s)
		s = s[sz:]
	}
	return s
}
