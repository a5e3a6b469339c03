package redditmd

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// blockOrder is the precedence of block productions. Paragraph is the
// catch-all and must stay last.
var blockOrder = []kind{
	kindQuote,
	kindTable,
	kindList,
	kindIndentedCode,
	kindFencedCode,
	kindHeading,
	kindRule,
	kindParagraph,
}

// block skips blank lines and then dispatches exactly one block production.
type block struct {
	started bool
	body    seq
}

func newBlock(excluded kindSet) *block {
	candidates := make([]kind, 0, len(blockOrder))
	for _, k := range blockOrder {
		if !excluded.has(k) {
			candidates = append(candidates, k)
		}
	}
	return &block{body: newSeq(kindBlock, options{blocks: excluded}, candidates...)}
}

func (b *block) kind() kind                { return kindBlock }
func (b *block) canStart(c *cursor) bool   { return b.body.canStartAny(c) }
func (b *block) canConsume(c *cursor) bool { return b.body.canConsume(c) }
func (b *block) html() string              { return b.body.html() }

func (b *block) consume(c *cursor) outcome {
	if !b.started {
		if isBlankLine(c.line) {
			return consumed
		}
		b.started = true
	}
	return b.body.consume(c)
}

// root repeats blocks until the input runs out.
type root struct {
	body seq
}

func newRoot() *root {
	r := &root{body: newSeq(kindRoot, options{}, kindBlock)}
	r.body.repeat = true
	r.body.sep = "\n\n"
	return r
}

func (r *root) kind() kind                { return kindRoot }
func (r *root) canStart(c *cursor) bool   { return r.body.canStartAny(c) }
func (r *root) consume(c *cursor) outcome { return r.body.consume(c) }
func (r *root) canConsume(c *cursor) bool { return r.body.canConsume(c) }
func (r *root) html() string              { return r.body.html() }

// paragraph is the catch-all block. It ends on the last character of a
// line that is followed by a blank line or by nothing.
type paragraph struct {
	body seq
}

func newParagraph() *paragraph {
	return &paragraph{body: newSeq(kindParagraph, options{links: true}, kindInline)}
}

// promoted wraps already parsed inline content in a paragraph.
func promoted(content node) *paragraph {
	p := newParagraph()
	p.body.children = []node{content}
	return p
}

func (p *paragraph) kind() kind                { return kindParagraph }
func (p *paragraph) canStart(c *cursor) bool   { return p.body.canStartAny(c) }
func (p *paragraph) canConsume(c *cursor) bool { return p.body.canConsume(c) }

func (p *paragraph) consume(c *cursor) outcome {
	if c.col+1 == c.lineLen && (c.next == "" || isBlankLine(c.next)) {
		return ended
	}
	return p.body.consume(c)
}

func (p *paragraph) html() string {
	return "<p>" + trimParagraph(p.body.html()) + "</p>"
}

// trimParagraph drops leading and trailing whitespace, except that a single
// trailing space after a non-space character is kept.
func trimParagraph(s string) string {
	trimmed := strings.TrimLeftFunc(s, isSpace)
	if endsInSingleSpace(s) {
		return trimmed
	}
	return strings.TrimRightFunc(trimmed, isSpace)
}

func endsInSingleSpace(s string) bool {
	if !strings.HasSuffix(s, " ") {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:len(s)-1])
	return len(s) > 1 && !isSpace(r)
}

type headingState uint8

const (
	headingLevel headingState = iota
	headingContent
)

// heading is one to six '#' characters and the rest of the line.
type heading struct {
	state headingState
	level int
	body  seq
}

func newHeading() *heading {
	return &heading{body: newSeq(kindHeading, options{links: true}, kindInline)}
}

func (h *heading) kind() kind                { return kindHeading }
func (h *heading) canStart(c *cursor) bool   { return strings.HasPrefix(c.line, "#") }
func (h *heading) canConsume(c *cursor) bool { return h.body.canConsume(c) }

func (h *heading) consume(c *cursor) outcome {
	if h.state == headingLevel {
		if c.ch == '#' {
			h.level++
			return consumed
		}
		h.level = min(6, h.level)
		h.state = headingContent
		if c.ch == ' ' {
			return consumed
		}
	}

	if c.ch == '\n' {
		return ended
	}
	h.body.consume(c)
	if c.last() {
		return ended
	}
	return consumed
}

func (h *heading) html() string {
	n := strconv.Itoa(h.level)
	return "<h" + n + ">" + h.body.html() + "</h" + n + ">"
}

// rule is a horizontal rule: a line of three or more '-', '*' or '_'.
type rule struct{}

func (*rule) kind() kind { return kindRule }

func (*rule) canStart(c *cursor) bool {
	s := strings.TrimSuffix(c.line, "\n")
	if len(s) < 3 {
		return false
	}
	switch s[0] {
	case '-', '*', '_':
		return strings.Trim(s, s[:1]) == ""
	}
	return false
}

func (*rule) consume(c *cursor) outcome {
	switch c.ch {
	case '-', '*', '_':
		return consumed
	}
	return ended
}

func (*rule) canConsume(*cursor) bool { return false }
func (*rule) html() string            { return "<hr/>" }
