package redditmd

import (
	"regexp"
	"strings"
)

type inlineCodeState uint8

const (
	tickStart inlineCodeState = iota
	wsStart
	codeContent
	wsEnd
	tickEnd
	codeCompleted
)

// inlineCode is a backtick code span. Its content is recorded verbatim and
// one layer of padding just inside the fences is dropped.
type inlineCode struct {
	state  inlineCodeState
	ticks  int
	closed int
	opened string
	ending string
	body   seq
}

func newInlineCode() *inlineCode {
	return &inlineCode{body: newSeq(kindInlineCode, options{verbatim: true}, kindText)}
}

func (ic *inlineCode) kind() kind { return kindInlineCode }

func (ic *inlineCode) canStart(c *cursor) bool {
	return c.prev != '\\' && opensInlineCode(c.remaining())
}

func (ic *inlineCode) consume(c *cursor) outcome {
	if ic.state == tickStart {
		if c.ch == '`' {
			ic.ticks++
			ic.opened += "`"
			return consumed
		}
		if isSpace(c.ch) {
			ic.opened += string(c.ch)
			ic.state = wsStart
			return consumed
		}
		ic.state = codeContent
	}

	if ic.state == wsStart {
		if isSpace(c.ch) {
			ic.opened += string(c.ch)
			return consumed
		}
		ic.state = codeContent
	}

	if ic.state == codeContent {
		if !closesInlineCode(c.remaining(), ic.ticks) {
			ic.body.consume(c)
			return consumed
		}
		if isSpace(c.ch) {
			ic.state = wsEnd
			return consumed
		}
		ic.state = tickEnd
	}

	if ic.state == wsEnd {
		if isSpace(c.ch) {
			ic.ending += string(c.ch)
			return consumed
		}
		ic.state = tickEnd
	}

	if ic.state == tickEnd && c.ch == '`' {
		ic.ending += "`"
		ic.closed++
		if ic.closed == ic.ticks {
			ic.state = codeCompleted
			return ended
		}
		return consumed
	}

	return ic.body.consume(c)
}

// canConsume is true on any line that is not blank.
func (ic *inlineCode) canConsume(c *cursor) bool {
	return c.line == "" || strings.TrimLeftFunc(c.line, isSpace) != ""
}

func (ic *inlineCode) html() string {
	if ic.state == codeCompleted {
		return "<code>" + ic.body.html() + "</code>"
	}
	return ic.opened + ic.body.html() + ic.ending
}

var indentRe = regexp.MustCompile(`^( {4}|\t)`)

type codeBlockState uint8

const (
	codeStart codeBlockState = iota
	codeBody
	codeEnd
	codeDone
)

// indentedCode is a block whose every line is indented by four spaces or a
// tab. The indentation is stripped and the rest kept verbatim.
type indentedCode struct {
	state  codeBlockState
	indent int
	body   seq
}

func newIndentedCode() *indentedCode {
	return &indentedCode{body: newSeq(kindIndentedCode, options{verbatim: true, keepTabs: true}, kindText)}
}

func (ic *indentedCode) kind() kind { return kindIndentedCode }

func (ic *indentedCode) canStart(c *cursor) bool {
	return c.col == 0 && indentRe.MatchString(c.line)
}

func (ic *indentedCode) consume(c *cursor) outcome {
	if ic.state == codeBody {
		if c.col != 0 {
			if c.ch == '\n' && !indentRe.MatchString(c.next) {
				return ended
			}
			ic.body.consume(c)
			return consumed
		}
		ic.indent = 0
		ic.state = codeStart
	}

	ic.indent++
	if ic.indent == 4 || c.ch == '\t' {
		ic.state = codeBody
	}
	return consumed
}

func (ic *indentedCode) canConsume(*cursor) bool { return true }

func (ic *indentedCode) html() string {
	return "<pre><code>" + ic.body.html() + "\n</code></pre>"
}

// fencedCode is a block between two lines of the same backtick run.
type fencedCode struct {
	state codeBlockState
	ticks int
	body  seq
}

func newFencedCode() *fencedCode {
	return &fencedCode{body: newSeq(kindFencedCode, options{verbatim: true, keepTabs: true}, kindText)}
}

func (fc *fencedCode) kind() kind { return kindFencedCode }

func (fc *fencedCode) canStart(c *cursor) bool {
	return c.col == 0 && strings.HasPrefix(c.remaining(), "```") && opensFence(c.remaining())
}

func (fc *fencedCode) consume(c *cursor) outcome {
	switch fc.state {
	case codeStart:
		if c.ch == '\n' {
			fc.state = codeBody
		} else {
			fc.ticks++
		}
	case codeBody:
		if c.ch == '\n' && c.next == strings.Repeat("`", fc.ticks)+"\n" {
			fc.state = codeEnd
			return consumed
		}
		fc.body.consume(c)
	case codeEnd:
		if c.ch == '\n' || c.last() {
			fc.state = codeDone
			return ended
		}
	}
	return consumed
}

func (fc *fencedCode) canConsume(*cursor) bool { return true }

func (fc *fencedCode) html() string {
	if fc.state == codeDone {
		return "<pre><code>" + fc.body.html() + "\n</code></pre>"
	}
	return strings.Repeat("`", fc.ticks) + fc.body.html()
}
