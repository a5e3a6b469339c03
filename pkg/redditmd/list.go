package redditmd

import (
	"regexp"
	"strings"
)

type listType struct {
	initial *regexp.Regexp // marker of the first entry
	marker  *regexp.Regexp // marker of any entry
	indent  int            // continuation indentation
	tag     string
}

var listTypes = []*listType{
	{
		initial: regexp.MustCompile(`^[*-] `),
		marker:  regexp.MustCompile(`^[*-] `),
		indent:  2,
		tag:     "ul",
	},
	{
		initial: regexp.MustCompile(`^1\. `),
		marker:  regexp.MustCompile(`^\d+\. `),
		indent:  3,
		tag:     "ol",
	},
}

func detectListType(line string) *listType {
	for _, lt := range listTypes {
		if lt.initial.MatchString(line) {
			return lt
		}
	}
	return nil
}

type listState uint8

const (
	listStart listState = iota
	listIndent
	listContent
	listBlankLine
)

type entryState uint8

const (
	entryText entryState = iota
	entryBlocks
	entrySublist
)

// listEntry is one item. It holds inline text until a blank line inside the
// item promotes it to block content.
type listEntry struct {
	text    *inline
	blocks  []node
	sublist *list
}

// list is an ordered or unordered list. Continuation lines must be indented
// by the width of the list type; the indentation is hidden from entries.
type list struct {
	typ   *listType
	state listState
	entry entryState

	entries []*listEntry
	cur     *listEntry

	indents   int
	trimNext  bool
	newBlock  bool
	isNewLine bool

	// Snapshots of the line views taken when a row is entered.
	line string
	next string
}

func newList() *list {
	return &list{isNewLine: true}
}

func (l *list) kind() kind { return kindList }

func (l *list) canStart(c *cursor) bool {
	return c.col == 0 && detectListType(c.line) != nil
}

func (l *list) consume(c *cursor) outcome {
	if l.typ == nil {
		if l.typ = detectListType(c.line); l.typ == nil {
			return ended
		}
	}

	switch l.state {
	case listStart:
		return l.consumeMarker(c)
	case listIndent:
		l.indents++
		if l.indents == l.typ.indent {
			l.state = listContent
			l.trimNext = true
			l.indents = 0
		}
	case listContent:
		return l.consumeContent(c)
	case listBlankLine:
		return l.consumeBlankLine(c)
	}
	return consumed
}

func (l *list) consumeMarker(c *cursor) outcome {
	if c.col == 0 {
		l.line = c.line
		l.next = c.next
	}
	marker := l.typ.marker.FindString(l.line)
	if marker == "" {
		return ended
	}
	if len(marker)-1 == c.col {
		l.state = listContent
		l.entry = entryText
		l.cur = &listEntry{text: newInline(true, 0)}
		l.entries = append(l.entries, l.cur)
		c.trimLine(len(marker))
		l.line = c.line
	}
	return consumed
}

func (l *list) consumeContent(c *cursor) outcome {
	if l.trimNext {
		c.trimLine(l.typ.indent)
		l.line = c.line
		l.next = c.next
		l.trimNext = false
	}

	if c.ch == '\n' && !(l.nextStillIndented() || l.nextIsNewEntry()) {
		if !hasBlankPrefix(c.next) {
			return ended
		}
		l.state = listBlankLine
		return consumed
	}

	switch l.entry {
	case entryText:
		l.cur.text.consume(c)
		if c.ch == '\n' {
			l.afterTextLine()
		}
	case entryBlocks:
		return l.consumeBlocks(c)
	case entrySublist:
		if l.cur.sublist == nil {
			l.cur.sublist = newList()
		}
		if l.isNewLine {
			if l.nextStillIndented() {
				c.setNext(l.next[l.typ.indent:])
			}
			l.isNewLine = false
		}
		if c.ch == '\n' {
			l.isNewLine = true
			if l.nextStillIndented() {
				l.state = listIndent
			} else if l.nextIsNewEntry() {
				l.state = listStart
			}
		}
		l.cur.sublist.consume(c)
	}
	return consumed
}

// afterTextLine decides how an inline entry continues past a newline.
func (l *list) afterTextLine() {
	switch {
	case l.nextIsNewEntry():
		l.state = listStart
	case l.nextIsNestedList():
		l.state = listIndent
		l.isNewLine = true
		l.entry = entrySublist
	case hasBlankPrefix(l.line) && l.nextStillIndented():
		l.state = listIndent
		l.promote()
	default:
		l.state = listIndent
	}
}

// promote turns the current entry's inline text into the first of a
// sequence of blocks. Blank text is dropped rather than kept as an empty
// paragraph.
func (l *list) promote() {
	if strings.TrimSpace(l.cur.text.html()) != "" {
		first := newBlock(kinds(kindList))
		first.started = true
		first.body.children = []node{promoted(l.cur.text)}
		l.cur.blocks = append(l.cur.blocks, first)
	}
	l.cur.text = nil
	l.entry = entryBlocks
	l.newBlock = true
}

func (l *list) consumeBlocks(c *cursor) outcome {
	if c.ch == '\n' {
		l.state = listIndent
		if l.nextIsNewEntry() {
			l.isNewLine = true
			l.state = listStart
			l.entry = entryText
		} else if l.nextIsNestedList() {
			l.isNewLine = true
			l.entry = entrySublist
		}
	}

	if l.newBlock {
		b := newBlock(kinds(kindList))
		switch {
		case b.canStart(c):
			l.cur.blocks = append(l.cur.blocks, b)
		case hasBlankPrefix(c.next):
			l.state = listBlankLine
		default:
			return ended
		}
	}
	if len(l.cur.blocks) == 0 {
		return consumed
	}

	last := l.cur.blocks[len(l.cur.blocks)-1]
	l.newBlock = last.consume(c) == ended
	return consumed
}

func (l *list) consumeBlankLine(c *cursor) outcome {
	if c.ch != '\n' {
		return consumed
	}

	l.line = c.line
	l.next = c.next
	l.isNewLine = true

	switch {
	case l.nextIsNewEntry():
		l.state = listStart
		l.entry = entryText
	case l.nextStillIndented():
		l.state = listIndent
		l.continueEntry()
	case hasBlankPrefix(c.next):
	default:
		return ended
	}
	return consumed
}

// continueEntry decides what indented content after a blank line adds to
// the current entry: another item of its nested list, a new nested list or
// further blocks.
func (l *list) continueEntry() {
	sub := l.next[l.typ.indent:]
	switch {
	case l.cur.sublist != nil && l.cur.sublist.resume(sub):
		l.entry = entrySublist
	case l.cur.sublist == nil && detectListType(sub) != nil:
		l.entry = entrySublist
	case l.entry == entryText:
		l.promote()
	default:
		l.entry = entryBlocks
		l.newBlock = true
	}
}

// resume prepares a nested list for the row after a blank line that its
// parent absorbed. It reports false when the row does not continue it.
func (l *list) resume(next string) bool {
	if l.typ == nil || l.cur == nil {
		return false
	}
	l.next = next
	l.isNewLine = true
	switch {
	case l.nextIsNewEntry():
		l.state = listStart
		l.entry = entryText
		return true
	case l.nextStillIndented() && l.cur.sublist != nil && l.cur.sublist.resume(next[l.typ.indent:]):
		l.state = listIndent
		l.entry = entrySublist
		return true
	}
	return false
}

func (l *list) nextIsNewEntry() bool {
	return l.next != "" && l.typ.marker.MatchString(l.next)
}

func (l *list) nextStillIndented() bool {
	return l.next != "" && strings.HasPrefix(l.next, strings.Repeat(" ", l.typ.indent))
}

func (l *list) nextIsNestedList() bool {
	if !l.nextStillIndented() {
		return false
	}
	if detectListType(l.next[l.typ.indent:]) != nil {
		return true
	}
	return l.cur != nil && l.cur.sublist != nil && l.cur.sublist.nextIsList()
}

func (l *list) nextIsList() bool {
	if l.typ == nil {
		return false
	}
	return l.nextIsNewEntry() || l.nextStillIndented() && l.cur != nil && l.cur.sublist != nil && l.cur.sublist.nextIsList()
}

func (l *list) canConsume(*cursor) bool { return false }

func (l *list) html() string {
	if l.typ == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("<" + l.typ.tag + ">\n")
	for i, e := range l.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("<li>")
		if e.text != nil {
			b.WriteString(trimEntry(e.text.html()))
		}
		for j, blk := range e.blocks {
			if j > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(blk.html())
		}
		if e.sublist != nil {
			b.WriteString("\n\n" + e.sublist.html())
		}
		b.WriteString("</li>")
	}
	b.WriteString("\n</" + l.typ.tag + ">")
	return b.String()
}

// trimEntry removes leading whitespace, or trailing whitespace when there
// is none in front.
func trimEntry(s string) string {
	if t := strings.TrimLeftFunc(s, isSpace); len(t) != len(s) {
		return t
	}
	return strings.TrimRightFunc(s, isSpace)
}
