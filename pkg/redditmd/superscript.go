package redditmd

import "unicode/utf8"

type supState uint8

const (
	supNotStarted supState = iota
	supOpen
	supContent
	supCompleted
)

// superscript is "^word" or "^(several words)".
//
// The bare form has no closing delimiter: it ends on the character whose
// successor is whitespace, taking that character with it.
type superscript struct {
	state supState
	paren bool
	body  seq
}

func newSuperscript() *superscript {
	sup := &superscript{body: newSeq(kindSuperscript, options{}, kindInline)}
	sup.body.repeat = true
	return sup
}

func (sup *superscript) kind() kind { return kindSuperscript }

func (sup *superscript) canStart(c *cursor) bool {
	rem := c.remaining()
	if c.prev == '\\' || len(rem) < 2 || rem[0] != '^' {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rem[1:])
	return !isSpace(r)
}

func (sup *superscript) consume(c *cursor) outcome {
	switch sup.state {
	case supNotStarted:
		sup.paren = c.peek(1) == '('
		if sup.paren {
			sup.state = supOpen
		} else {
			sup.state = supContent
		}
		return consumed
	case supOpen:
		sup.state = supContent
		return consumed
	case supContent:
		if sup.paren && c.ch == ')' {
			sup.state = supCompleted
			return ended
		}
		if next := c.peek(1); !sup.paren && (next == 0 || isSpace(next)) {
			sup.state = supCompleted
			sup.body.consume(c)
			return ended
		}
		return sup.body.consume(c)
	}
	return ended
}

func (sup *superscript) canConsume(c *cursor) bool { return sup.body.canConsume(c) }

func (sup *superscript) html() string {
	if sup.state == supCompleted || !sup.paren {
		return "<sup>" + sup.body.html() + "</sup>"
	}
	return "^(" + sup.body.html()
}
