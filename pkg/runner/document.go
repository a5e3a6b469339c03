package runner

import (
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/yaklabco/snoomark/pkg/config"
)

// WrapDocument embeds a rendered fragment in a complete HTML page. The
// title is doc.Title, else the text of the first heading, else fallback.
func WrapDocument(fragment string, doc config.DocumentConfig, fallback string) string {
	title := doc.Title
	if title == "" {
		title = firstHeading(fragment)
	}
	if title == "" {
		title = fallback
	}

	var b strings.Builder
	b.Grow(len(fragment) + 256)
	b.WriteString("<!DOCTYPE html>\n<html")
	if doc.Lang != "" {
		b.WriteString(` lang="` + html.EscapeString(doc.Lang) + `"`)
	}
	b.WriteString(">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	if doc.Stylesheet != "" {
		b.WriteString(`<link rel="stylesheet" href="` + html.EscapeString(doc.Stylesheet) + "\">\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(fragment)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// firstHeading returns the text content of the first h1-h6 element in
// fragment, or "" when there is none.
func firstHeading(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	depth := 0
	var text strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			if name, _ := z.TagName(); isHeading(name) {
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isHeading(name) && depth > 0 {
				return strings.TrimSpace(text.String())
			}
		case html.TextToken:
			if depth > 0 {
				text.Write(z.Text())
			}
		}
	}
}

func isHeading(name []byte) bool {
	return len(name) == 2 && name[0] == 'h' && '1' <= name[1] && name[1] <= '6'
}

// OutputPath returns where the HTML for src is written: beside it, or
// mirrored under outDir relative to workDir. Sources outside workDir are
// placed at the top of outDir.
func OutputPath(src, workDir, outDir string) string {
	name := strings.TrimSuffix(src, filepath.Ext(src)) + ".html"
	if outDir == "" {
		return name
	}

	outDir = absUnder(workDir, outDir)
	rel, err := filepath.Rel(workDir, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(name)
	}
	return filepath.Join(outDir, rel)
}
