package redditmd

import "strings"

const quoteMarker = "> "

type quoteState uint8

const (
	quoteMarkerState quoteState = iota
	quoteContent
	quoteCompleted
)

// quote is a blockquote. It owns the "> " marker of each of its lines and
// hides it from the line views its children see, so nested blocks parse the
// quoted text as if it were unquoted.
type quote struct {
	state quoteState
	// marked is set once the marker of the current row has been seen.
	marked bool
	// continues records whether the next row carries the marker too.
	continues bool
	body      seq
}

func newQuote() *quote {
	q := &quote{body: newSeq(kindQuote, options{}, kindBlock)}
	q.body.repeat = true
	q.body.sep = "\n\n"
	return q
}

func (q *quote) kind() kind              { return kindQuote }
func (q *quote) canStart(c *cursor) bool { return strings.HasPrefix(c.line, quoteMarker) }

func (q *quote) consume(c *cursor) outcome {
	if q.state == quoteMarkerState {
		if !q.marked {
			q.marked = true
			q.continues = strings.HasPrefix(c.next, quoteMarker)
			if q.continues {
				c.trimNext(len(quoteMarker))
			}
		}
		if c.ch == ' ' {
			q.state = quoteContent
			q.marked = false
			c.trimLine(len(quoteMarker))
		}
		return consumed
	}

	if c.ch == '\n' {
		if q.continues {
			q.body.consume(c)
			q.state = quoteMarkerState
			return consumed
		}
		q.state = quoteCompleted
		return ended
	}

	q.body.consume(c)
	if c.last() {
		return ended
	}
	return consumed
}

func (q *quote) canConsume(c *cursor) bool { return q.body.canConsume(c) }

func (q *quote) html() string {
	return "<blockquote>\n" + q.body.html() + "\n</blockquote>"
}
