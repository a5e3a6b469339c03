package redditmd

import (
	"regexp"
	"strings"
)

// entityRe matches the tail of a character reference after its '&'.
var entityRe = regexp.MustCompile(`^(?:[a-zA-Z\d]+|#\d+|#x[a-fA-F\d]+);`)

// escapeHTML escapes the five HTML-special characters. Existing character
// references are left alone as long as they appear before the first
// character that needs escaping.
func escapeHTML(s string) string {
	start := -1
	for i := 0; i < len(s) && start < 0; i++ {
		switch s[i] {
		case '"', '\'', '<', '>':
			start = i
		case '&':
			if !entityRe.MatchString(s[i+1:]) {
				start = i
			}
		}
	}
	if start < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)
	b.WriteString(s[:start])
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '"':
			b.WriteString("&quot;")
		case '&':
			b.WriteString("&amp;")
		case '\'':
			b.WriteString("&#39;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

const upperHex = "0123456789ABCDEF"

// encodeURI percent-encodes s the way browsers encode a full URI: reserved
// characters and '#' are kept, everything else outside the unreserved set
// is written as UTF-8 escapes.
func encodeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if keepInURI(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[ch>>4])
		b.WriteByte(upperHex[ch&0x0F])
	}
	return b.String()
}

func keepInURI(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
		return true
	}
	return strings.IndexByte(";,/?:@&=+$-_.!~*'()#", ch) >= 0
}

// isSpace reports whether r is whitespace in the markdown sense, which
// includes the Unicode space separators and the byte order mark.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x00A0, 0x1680, 0x2028, 0x2029,
		0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return 0x2000 <= r && r <= 0x200A
}

// isLineBreak reports whether r terminates a line for lookahead purposes.
func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x2028 || r == 0x2029
}

func isWordChar(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'
}
