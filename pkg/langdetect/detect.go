// Package langdetect guesses the language of code block content.
// It uses go-enry for shebangs, fence aliases and the final classifier pass,
// with a few cheap textual heuristics in front of the classifier.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language tags produced by the heuristics.
const (
	langGo         = "go"
	langPython     = "python"
	langJavaScript = "javascript"
	langJSON       = "json"
	langYAML       = "yaml"
	langHTML       = "html"
	langSQL        = "sql"
	langRust       = "rust"
	langDockerfile = "dockerfile"
	langMarkdown   = "markdown"
	langText       = "text"
	langBash       = "bash"
)

// Method records which stage produced a Guess.
type Method string

// Detection stages, in the order they are tried.
const (
	MethodInfoString Method = "info-string"
	MethodShebang    Method = "shebang"
	MethodPattern    Method = "pattern"
	MethodClassifier Method = "classifier"
	MethodFallback   Method = "fallback"
)

// Guess is a detected language tag and how it was found.
type Guess struct {
	Language string `json:"language"`
	Method   Method `json:"method"`
}

// classifierCandidates bounds the enry classifier to languages commonly
// pasted into posts.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Detect guesses the language of content: shebang first, then textual
// patterns, then the enry classifier. Low confidence yields "text".
func Detect(content []byte) Guess {
	if len(bytes.TrimSpace(content)) == 0 {
		return Guess{Language: langText, Method: MethodFallback}
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return Guess{Language: normalize(lang), Method: MethodShebang}
	}

	if lang := detectByPattern(newSample(content)); lang != "" {
		return Guess{Language: lang, Method: MethodPattern}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return Guess{Language: normalize(lang), Method: MethodClassifier}
	}

	return Guess{Language: langText, Method: MethodFallback}
}

// fromInfoString resolves a fence info string such as "py" or "golang
// title=x" to a language tag. The second result is false when the first
// word is not a known language alias.
func fromInfoString(info string) (string, bool) {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return "", false
	}
	lang, ok := enry.GetLanguageByAlias(fields[0])
	if !ok {
		return "", false
	}
	return normalize(lang), true
}

// DetectBlock prefers a recognizable info string and falls back to Detect.
func DetectBlock(info string, content []byte) Guess {
	if lang, ok := fromInfoString(info); ok {
		return Guess{Language: lang, Method: MethodInfoString}
	}
	return Detect(content)
}

// sample holds the views of the content the heuristics need.
type sample struct {
	raw     []byte
	trimmed []byte
	text    string
}

func newSample(content []byte) sample {
	return sample{raw: content, trimmed: bytes.TrimSpace(content), text: string(content)}
}

// patterns are tried in order of specificity.
var patterns = []func(sample) string{
	detectGo,
	detectPython,
	detectHTML,
	detectJSON,
	detectDockerfile,
	detectSQL,
	detectRust,
	detectMarkdownTable,
	detectJavaScript,
	detectYAML,
}

func detectByPattern(s sample) string {
	for _, detect := range patterns {
		if lang := detect(s); lang != "" {
			return lang
		}
	}
	return ""
}

func detectGo(s sample) string {
	if bytes.HasPrefix(s.trimmed, []byte("package ")) {
		return langGo
	}
	return ""
}

func detectPython(s sample) string {
	if strings.Contains(s.text, "def ") && strings.Contains(s.text, "):") {
		return langPython
	}
	// Go uses "import (", Python never does.
	if strings.Contains(s.text, "import ") && !strings.Contains(s.text, "import (") {
		if strings.Contains(s.text, "from ") || strings.HasPrefix(strings.TrimSpace(s.text), "import ") {
			return langPython
		}
	}
	if strings.Contains(s.text, "__name__") || strings.Contains(s.text, "__main__") {
		return langPython
	}
	return ""
}

func detectHTML(s sample) string {
	lower := bytes.ToLower(s.trimmed)
	for _, marker := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
		if bytes.Contains(lower, []byte(marker)) {
			return langHTML
		}
	}
	return ""
}

func detectJSON(s sample) string {
	if (bytes.HasPrefix(s.trimmed, []byte("{")) || bytes.HasPrefix(s.trimmed, []byte("["))) &&
		bytes.Contains(s.trimmed, []byte(`"`)) {
		return langJSON
	}
	return ""
}

func detectDockerfile(s sample) string {
	if bytes.HasPrefix(s.trimmed, []byte("FROM ")) ||
		(bytes.Contains(s.raw, []byte("\nFROM ")) && bytes.Contains(s.raw, []byte("\nRUN "))) ||
		(bytes.Contains(s.raw, []byte("WORKDIR ")) && bytes.Contains(s.raw, []byte("COPY "))) {
		return langDockerfile
	}
	return ""
}

func detectSQL(s sample) string {
	upper := strings.ToUpper(strings.TrimSpace(s.text))
	for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, kw) {
			return langSQL
		}
	}
	return ""
}

func detectRust(s sample) string {
	if strings.Contains(s.text, "fn main()") ||
		strings.Contains(s.text, "println!") ||
		strings.Contains(s.text, "let mut ") {
		return langRust
	}
	return ""
}

// detectMarkdownTable spots a pipe table delimiter row such as
// "|:--|--:|", which is how table syntax usually shows up quoted in posts.
func detectMarkdownTable(s sample) string {
	for _, line := range strings.Split(s.text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "|") || !strings.Contains(line, "--") {
			continue
		}
		if strings.Trim(line, "|:- ") == "" {
			return langMarkdown
		}
	}
	return ""
}

func detectJavaScript(s sample) string {
	if strings.Contains(s.text, "=>") ||
		strings.Contains(s.text, "const ") ||
		strings.Contains(s.text, "let ") ||
		strings.Contains(s.text, "console.log") {
		return langJavaScript
	}
	return ""
}

// detectYAML counts "key: value" lines and root list items.
func detectYAML(s sample) string {
	keys := 0
	for _, line := range bytes.Split(s.raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || bytes.HasPrefix(line, []byte("#")) {
			continue
		}
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.Contains(line, []byte("(")) &&
			!bytes.Contains(line, []byte("{")) &&
			!bytes.HasPrefix(line, []byte(`"`)) {
			keys++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			keys++
		}
	}

	if keys >= 2 {
		return langYAML
	}
	return ""
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(lang)
}
