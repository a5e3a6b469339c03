package redditmd

import (
	"regexp"
	"strings"
)

const linkSchemes = `http://|https://|ftp://|mailto:|git://|steam://|irc://|news://|mumble://|ssh://|ircs://|ts3server://`

var (
	redditLinkRe = regexp.MustCompile(`^/?(?:r|u|user)/[^/]+`)
	schemeLinkRe = regexp.MustCompile(`^(?:` + linkSchemes + `).+`)
	manualLinkRe = regexp.MustCompile(`(?s)^\[.+\]\((?:` + linkSchemes + `|/|#)(?:[^)]|\\\)|\\\()+\)`)
)

type linkForm uint8

const (
	linkUnknown linkForm = iota
	linkReddit
	linkScheme
	linkManual
)

type manualState uint8

const (
	manualStart manualState = iota
	manualLabel
	manualSeparator
	manualURL
	manualTitle
	manualEnd
)

// link is one of three forms, tried in order: a bare reddit mention such as
// /r/golang, a bare URL with a known scheme, or [label](url "title").
type link struct {
	form   linkForm
	manual manualState

	url      strings.Builder
	alt      strings.Builder
	title    strings.Builder
	surround rune

	body seq
}

func newLink() *link {
	return &link{body: newSeq(kindLink, options{}, kindInline)}
}

func (l *link) kind() kind { return kindLink }

func (l *link) canStart(c *cursor) bool {
	if !(c.prev == 0 || !isWordChar(c.prev) || c.newNode) {
		return false
	}
	rem := c.remaining()
	return isRedditLink(rem) && c.prev != '\\' || isSchemeLink(rem) || isManualLink(rem)
}

func isRedditLink(s string) bool {
	return s != "" && strings.IndexByte("/ru", s[0]) >= 0 && redditLinkRe.MatchString(s)
}

func isSchemeLink(s string) bool {
	return s != "" && strings.IndexByte("hfmgsint", s[0]) >= 0 && schemeLinkRe.MatchString(s)
}

func isManualLink(s string) bool {
	return strings.HasPrefix(s, "[") && manualLinkRe.MatchString(s)
}

func isRedditChar(r rune) bool {
	switch r {
	case '/', '-', '_', '+':
		return true
	}
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'
}

// followsReddit reports whether s ends in a subreddit or multireddit
// segment named stem.
func followsReddit(s, stem string) bool {
	return strings.HasSuffix(s, "r/"+stem) || strings.HasSuffix(s, "+"+stem)
}

func (l *link) consume(c *cursor) outcome {
	if l.form == linkUnknown {
		rem := c.remaining()
		switch {
		case isRedditLink(rem):
			l.form = linkReddit
		case isSchemeLink(rem):
			l.form = linkScheme
		case isManualLink(rem):
			l.form = linkManual
		}
	}

	switch l.form {
	case linkReddit:
		return l.consumeReddit(c)
	case linkScheme:
		l.url.WriteRune(c.ch)
		l.alt.WriteRune(c.ch)
		if next := c.peek(1); next == '|' || next == ')' || next != 0 && isSpace(next) {
			return ended
		}
		return consumed
	case linkManual:
		return l.consumeManual(c)
	}
	return ended
}

// consumeReddit accumulates a mention. A ".com" right after "r/reddit" or
// "+reddit" continues the mention, so /r/reddit.com stays one link.
func (l *link) consumeReddit(c *cursor) outcome {
	if l.url.Len() == 0 && c.ch != '/' {
		l.url.WriteByte('/')
	}

	prevText := c.consumed()
	if !isRedditChar(c.ch) && !(strings.HasPrefix(c.remaining(), ".com") && followsReddit(prevText, "reddit")) {
		return ended
	}
	l.url.WriteRune(c.ch)
	l.alt.WriteRune(c.ch)

	if !isRedditChar(c.peek(1)) && !(strings.HasPrefix(c.remaining(), "t.com") && followsReddit(prevText, "reddi")) {
		return ended
	}
	return consumed
}

func (l *link) consumeManual(c *cursor) outcome {
	switch l.manual {
	case manualStart:
		l.manual = manualLabel
	case manualLabel:
		if c.ch == ']' && c.prev != '\\' {
			l.manual = manualSeparator
		} else {
			l.body.consume(c)
		}
	case manualSeparator:
		l.manual = manualURL
	case manualURL:
		switch {
		case c.ch == ')' && c.prev != '\\':
			return ended
		case c.ch == ' ':
			l.manual = manualTitle
		default:
			l.url.WriteRune(c.ch)
		}
	case manualTitle:
		switch {
		case l.title.Len() == 0 && (c.ch == '"' || c.ch == '\''):
			l.surround = c.ch
		case l.surround != 0 && c.ch == l.surround:
			l.manual = manualEnd
		case c.ch == ')' || c.ch == '\n':
			return ended
		default:
			l.title.WriteRune(c.ch)
		}
	case manualEnd:
		return ended
	}
	return consumed
}

func (l *link) canConsume(c *cursor) bool { return l.body.canConsume(c) }

func (l *link) html() string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(escapeHTML(encodeURI(l.url.String())))
	b.WriteByte('"')
	if l.title.Len() > 0 {
		b.WriteString(` title="`)
		b.WriteString(escapeHTML(l.title.String()))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if label := l.body.html(); label != "" {
		b.WriteString(label)
	} else {
		b.WriteString(escapeHTML(l.alt.String()))
	}
	b.WriteString("</a>")
	return b.String()
}
