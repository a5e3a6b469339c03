package redditmd

import (
	"errors"
	"fmt"
	"strings"
)

// outcome is what a production reports after being fed one character.
type outcome uint8

const (
	// ended: the production is finished. The character was either its last
	// one or one that does not belong to it; in both cases it is not
	// offered to anybody else.
	ended outcome = iota
	// consumed: the character was absorbed and the production continues.
	consumed
	// textFallback: plain text took the character. The owning composite
	// retries its other candidates on the next character.
	textFallback
)

// kind enumerates every grammar production.
type kind uint8

const (
	kindText kind = iota
	kindInlineCode
	kindStyled
	kindSuperscript
	kindLink
	kindInline
	kindParagraph
	kindHeading
	kindRule
	kindIndentedCode
	kindFencedCode
	kindQuote
	kindList
	kindTable
	kindBlock
	kindRoot
)

var kindNames = [...]string{
	kindText:         "text",
	kindInlineCode:   "inline code",
	kindStyled:       "styled text",
	kindSuperscript:  "superscript",
	kindLink:         "link",
	kindInline:       "inline",
	kindParagraph:    "paragraph",
	kindHeading:      "heading",
	kindRule:         "horizontal rule",
	kindIndentedCode: "indented code",
	kindFencedCode:   "fenced code",
	kindQuote:        "blockquote",
	kindList:         "list",
	kindTable:        "table",
	kindBlock:        "block",
	kindRoot:         "root",
}

func (k kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// kindSet is a set of productions, used to exclude block types.
type kindSet uint32

func kinds(ks ...kind) kindSet {
	var s kindSet
	for _, k := range ks {
		s |= 1 << k
	}
	return s
}

func (s kindSet) has(k kind) bool { return s&(1<<k) != 0 }

// styleSet is a set of indexes into styles.
type styleSet uint8

func (s styleSet) has(i int) bool      { return s&(1<<i) != 0 }
func (s styleSet) with(i int) styleSet { return s | 1<<i }

// options parameterize a production when a composite spawns it.
type options struct {
	links    bool     // inline: links may start
	styles   styleSet // inline: delimiters that may not open again
	blocks   kindSet  // block: productions that are not candidates
	verbatim bool     // text: no unescaping or line-break rewriting
	keepTabs bool     // text: tabs become four spaces instead of one
}

// node is one grammar production. The cursor is passed to every call; a
// node never keeps it.
type node interface {
	kind() kind
	// canStart is a side-effect-free lookahead: may this production begin
	// at the cursor?
	canStart(c *cursor) bool
	// consume feeds the character under the cursor.
	consume(c *cursor) outcome
	// canConsume reports whether the production could keep absorbing the
	// remaining text. Styled spans use it to decide whether to close.
	canConsume(c *cursor) bool
	// html renders the production. It may be called any number of times.
	html() string
}

// ErrNoProduction is matched by every *SelectionError.
var ErrNoProduction = errors.New("no production can start")

// SelectionError reports a composite that had to pick a child but found no
// candidate willing to start. It indicates a defect in the grammar, never
// bad input.
type SelectionError struct {
	Production string
	Offset     int
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("redditmd: %s: no production can start at offset %d", e.Production, e.Offset)
}

func (e *SelectionError) Unwrap() error { return ErrNoProduction }

// seq is the child slot of a composite production: an ordered candidate
// list, the children produced so far and the one currently fed.
type seq struct {
	owner      kind
	candidates []kind
	opts       options
	repeat     bool   // another child may follow one that ended
	sep        string // joins children in html

	children []node
	active   node
	fallback bool
}

func newSeq(owner kind, opts options, candidates ...kind) seq {
	return seq{owner: owner, opts: opts, candidates: candidates}
}

// canStartAny reports whether any candidate could start at the cursor.
func (s *seq) canStartAny(c *cursor) bool {
	for _, k := range s.candidates {
		if spawn(k, s.opts).canStart(c) {
			return true
		}
	}
	return false
}

func (s *seq) consume(c *cursor) outcome {
	if s.active == nil || s.fallback {
		for _, k := range s.candidates {
			if s.fallback && k == kindText {
				continue
			}
			if n := spawn(k, s.opts); n.canStart(c) {
				s.active = n
				s.children = append(s.children, n)
				break
			}
		}
		if s.active == nil {
			panic(&SelectionError{Production: s.owner.String(), Offset: c.pos})
		}
		s.fallback = false
	}

	switch s.active.consume(c) {
	case ended:
		s.active = nil
		if s.repeat && s.canStartAny(c) {
			return consumed
		}
		return ended
	case textFallback:
		s.fallback = true
	}
	return consumed
}

func (s *seq) canConsume(c *cursor) bool {
	return s.active != nil && s.active.canConsume(c)
}

func (s *seq) html() string {
	if len(s.children) == 1 {
		return s.children[0].html()
	}
	parts := make([]string, len(s.children))
	for i, ch := range s.children {
		parts[i] = ch.html()
	}
	return strings.Join(parts, s.sep)
}

// spawn creates a fresh production of kind k.
func spawn(k kind, o options) node {
	switch k {
	case kindText:
		return &text{verbatim: o.verbatim, keepTabs: o.keepTabs}
	case kindInlineCode:
		return newInlineCode()
	case kindStyled:
		return newStyled(o.styles, o.links)
	case kindSuperscript:
		return newSuperscript()
	case kindLink:
		return newLink()
	case kindInline:
		return newInline(o.links, o.styles)
	case kindParagraph:
		return newParagraph()
	case kindHeading:
		return newHeading()
	case kindRule:
		return &rule{}
	case kindIndentedCode:
		return newIndentedCode()
	case kindFencedCode:
		return newFencedCode()
	case kindQuote:
		return newQuote()
	case kindList:
		return newList()
	case kindTable:
		return newTable()
	case kindBlock:
		return newBlock(o.blocks)
	case kindRoot:
		return newRoot()
	}
	panic(fmt.Sprintf("redditmd: unknown production %v", k))
}
