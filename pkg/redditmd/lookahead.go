package redditmd

import (
	"strings"
	"unicode/utf8"
)

// Lookahead predicates over the remaining text or a line view. Several of
// them need lookbehind or backreferences, which regexp does not provide, so
// they are written out by hand.

// isBlankLine reports whether s is only whitespace and ends in a newline.
func isBlankLine(s string) bool {
	return strings.HasSuffix(s, "\n") && strings.TrimLeftFunc(s, isSpace) == ""
}

// hasBlankPrefix reports whether the leading whitespace of s contains a newline.
func hasBlankPrefix(s string) bool {
	for _, r := range s {
		if r == '\n' {
			return true
		}
		if !isSpace(r) {
			return false
		}
	}
	return false
}

// firstLine returns s up to, not including, the first line break.
func firstLine(s string) string {
	if i := strings.IndexFunc(s, isLineBreak); i >= 0 {
		return s[:i]
	}
	return s
}

// opensInlineCode reports whether s starts with a backtick fence that is
// closed by a fence of the same length later on the same line. Shorter
// fences are tried when the full opening run has no partner.
func opensInlineCode(s string) bool {
	n := len(s) - len(strings.TrimLeft(s, "`"))
	for k := n; k >= 1; k-- {
		if strings.Contains(firstLine(s[k:]), strings.Repeat("`", k)) {
			return true
		}
	}
	return false
}

// closesInlineCode reports whether s is optional whitespace followed by
// ticks backticks.
func closesInlineCode(s string, ticks int) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(s, isSpace), strings.Repeat("`", ticks))
}

// opensFence reports whether s begins with a line of three or more
// backticks that is closed by a later line of exactly the same run.
func opensFence(s string) bool {
	nl := strings.IndexByte(s, '\n')
	if nl < 3 || strings.Trim(s[:nl], "`") != "" {
		return false
	}
	fence := s[:nl]
	rest := s[nl+1:]
	for {
		i := strings.IndexByte(rest, '\n')
		if i < 0 {
			return rest == fence
		}
		ln := rest[:i]
		if ln == fence {
			return true
		}
		if strings.ContainsAny(ln, "\r\u2028\u2029") {
			return false
		}
		rest = rest[i+1:]
	}
}

// countRowPipes counts pipes that are not escaped with a backslash.
func countRowPipes(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '|' && (i == 0 || s[i-1] != '\\') {
			n++
		}
	}
	return n
}

// isHeaderRow reports whether line looks like "|...|" with an unescaped
// closing pipe followed only by spaces and a newline.
func isHeaderRow(line string) bool {
	if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "\n") {
		return false
	}
	body := strings.TrimRight(line[:len(line)-1], " ")
	if strings.ContainsAny(body, "\r\u2028\u2029") {
		return false
	}
	end := len(body)
	start := len(strings.TrimRight(body, "|"))
	if start == end {
		return false
	}
	if end-start >= 2 {
		return true
	}
	return start >= 1 && body[start-1] != '\\'
}

// isDividerRow reports whether line is a table divider such as "|:--|-:|".
func isDividerRow(line string) bool {
	if !strings.HasPrefix(line, "|") {
		return false
	}
	body := line[1:]
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[:i]
	}
	body = strings.TrimRight(body, " ")
	if body == "" || !strings.HasSuffix(body, "|") {
		return false
	}
	return strings.Trim(body, ":- |") == ""
}

// isRowEnd reports whether s is a pipe followed by nothing but whitespace
// up to a line break or the end of the text.
func isRowEnd(s string) bool {
	if !strings.HasPrefix(s, "|") {
		return false
	}
	for _, r := range s[1:] {
		if r == '\n' {
			return true
		}
		if !isSpace(r) {
			return false
		}
	}
	return true
}

// isPipeLineEnd reports whether s is a pipe, optional spaces and a newline.
func isPipeLineEnd(s string) bool {
	return strings.HasPrefix(s, "|") && strings.HasPrefix(strings.TrimLeft(s[1:], " "), "\n")
}

// isSpacedPipeLineEnd reports whether s is spaces, a pipe, spaces and a newline.
func isSpacedPipeLineEnd(s string) bool {
	return isPipeLineEnd(strings.TrimLeft(s, " "))
}

// closesCell reports whether the current character of s is followed by
// optional spaces and an unescaped pipe.
func closesCell(s string) bool {
	r, sz := utf8.DecodeRuneInString(s)
	if s == "" || isLineBreak(r) {
		return false
	}
	rest := s[sz:]
	spaces := len(rest) - len(strings.TrimLeft(rest, " "))
	if !strings.HasPrefix(rest[spaces:], "|") {
		return false
	}
	return spaces > 0 || r != '\\'
}
