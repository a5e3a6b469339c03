package redditmd

import (
	"strings"
	"unicode/utf8"
)

type style struct {
	open  string
	close string
	tag   string
	attrs string
	// noMidWordEnd forbids closing when a word character follows.
	noMidWordEnd bool
}

// styles is ordered by precedence: the first delimiter that fits wins.
var styles = []*style{
	{open: "**", close: "**", tag: "strong"},
	{open: "__", close: "__", tag: "strong"},
	{open: "*", close: "*", tag: "em"},
	{open: "_", close: "_", tag: "em", noMidWordEnd: true},
	{open: "~~", close: "~~", tag: "del"},
	{open: ">!", close: "!<", tag: "span", attrs: ` class="md-spoiler-text"`},
}

// closedLater reports whether s opens with the delimiter and closes it
// somewhere after.
func (st *style) closedLater(s string) bool {
	return strings.HasPrefix(s, st.open) && strings.Contains(s[len(st.open):], st.close)
}

type styledState uint8

const (
	styledNotStarted styledState = iota
	styledStart
	styledContent
	styledEnd
	styledCompleted
)

// styled is a delimited span: strong, emphasis, strikethrough or spoiler.
// A delimiter that is already open further up is excluded so spans of the
// same kind never nest.
type styled struct {
	excluded styleSet
	links    bool

	st     *style
	state  styledState
	opened string
	closed string
	body   seq
}

func newStyled(excluded styleSet, links bool) *styled {
	return &styled{excluded: excluded, links: links}
}

func (s *styled) kind() kind { return kindStyled }

func (s *styled) canStart(c *cursor) bool {
	if c.prev == '\\' {
		return false
	}
	rem := c.remaining()
	for i, st := range styles {
		if s.excluded.has(i) || !st.closedLater(rem) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rem[len(st.open):]); !isSpace(r) {
			return true
		}
	}
	return false
}

func (s *styled) consume(c *cursor) outcome {
	if s.state == styledNotStarted {
		rem := c.remaining()
		idx := -1
		for i, st := range styles {
			if !s.excluded.has(i) && st.closedLater(rem) {
				idx = i
				break
			}
		}
		if idx < 0 {
			panic(&SelectionError{Production: kindStyled.String(), Offset: c.pos})
		}
		s.st = styles[idx]
		s.body = newSeq(kindStyled, options{links: s.links, styles: s.excluded.with(idx)}, kindInline)
		s.body.repeat = true
		s.state = styledStart
	}

	if s.state == styledStart {
		s.opened += string(c.ch)
		if s.opened == s.st.open {
			s.state = styledContent
		}
		return consumed
	}

	if s.state == styledContent {
		if s.closesHere(c) {
			s.state = styledEnd
		} else {
			c.newNode = true
			return s.body.consume(c)
		}
	}

	s.closed += string(c.ch)
	if s.closed == s.st.close {
		s.state = styledCompleted
		return ended
	}
	return consumed
}

func (s *styled) closesHere(c *cursor) bool {
	rem := c.remaining()
	if !strings.HasPrefix(rem, s.st.close) {
		return false
	}
	if s.st.noMidWordEnd {
		if r, sz := utf8.DecodeRuneInString(rem[len(s.st.close):]); sz > 0 && !isSpace(r) {
			return false
		}
	}
	return s.body.active != nil && !s.body.active.canConsume(c)
}

func (s *styled) canConsume(c *cursor) bool {
	if s.st == nil {
		return false
	}
	return strings.HasPrefix(c.remaining(), s.st.close[len(s.closed):]) || s.body.canConsume(c)
}

func (s *styled) html() string {
	if s.state == styledCompleted {
		return "<" + s.st.tag + s.st.attrs + ">" + s.body.html() + "</" + s.st.tag + ">"
	}
	return escapeHTML(s.opened) + s.body.html() + escapeHTML(s.closed)
}
