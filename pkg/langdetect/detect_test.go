package langdetect_test

import (
	"testing"

	"github.com/yaklabco/snoomark/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "shebang bash",
			content:  "#!/bin/bash\necho hello",
			expected: "bash",
		},
		{
			name:     "shebang sh",
			content:  "#!/bin/sh\necho hello",
			expected: "bash",
		},
		{
			name:     "shebang python",
			content:  "#!/usr/bin/env python3\nprint('hello')",
			expected: "python",
		},
		{
			name:     "go code",
			content:  "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}",
			expected: "go",
		},
		{
			name:     "python code",
			content:  "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()",
			expected: "python",
		},
		{
			name:     "javascript code",
			content:  "const x = () => { return 42; };\nconsole.log(x());",
			expected: "javascript",
		},
		{
			name:     "json object",
			content:  `{"key": "value", "number": 123}`,
			expected: "json",
		},
		{
			name:     "yaml content",
			content:  "key: value\nother: 123\nlist:\n  - item1\n  - item2",
			expected: "yaml",
		},
		{
			name:     "rust code",
			content:  "fn main() {\n    println!(\"Hello, world!\");\n}",
			expected: "rust",
		},
		{
			name:     "plain text fallback",
			content:  "just some text without any code patterns",
			expected: "text",
		},
		{
			name:     "empty content fallback",
			content:  "",
			expected: "text",
		},
		{
			name:     "sql query",
			content:  "SELECT * FROM users WHERE id = 1;",
			expected: "sql",
		},
		{
			name:     "html content",
			content:  "<!DOCTYPE html>\n<html>\n<head><title>Test</title></head>\n<body></body>\n</html>",
			expected: "html",
		},
		{
			name:     "markdown table",
			content:  "|a|b|\n|:--|--:|\n|1|2|",
			expected: "markdown",
		},
		{
			name:     "whitespace only fallback",
			content:  "  \n\t\n",
			expected: "text",
		},
		{
			name:     "dockerfile",
			content:  "FROM golang:1.21\nWORKDIR /app\nCOPY . .\nRUN go build",
			expected: "dockerfile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := langdetect.Detect([]byte(tt.content))

			if result.Language != tt.expected {
				t.Errorf("Detect() = %q (%s), want %q", result.Language, result.Method, tt.expected)
			}
		})
	}
}

func TestDetect_ShebangTakesPrecedence(t *testing.T) {
	t.Parallel()

	// Content looks like Python but has bash shebang
	content := []byte("#!/bin/bash\ndef foo():\n    pass")
	result := langdetect.Detect(content)

	if result.Language != "bash" || result.Method != langdetect.MethodShebang {
		t.Errorf("Detect() = %+v, want bash via shebang", result)
	}
}

func TestDetect_NormalizesLanguageNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "shell normalizes to bash",
			content: "#!/bin/sh\necho test",
			want:    "bash",
		},
		{
			name:    "languages are lowercase",
			content: "package main\n\nfunc main() {}",
			want:    "go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := langdetect.Detect([]byte(tt.content))

			if result.Language != tt.want {
				t.Errorf("Detect() = %q, want %q", result.Language, tt.want)
			}
		})
	}
}

func TestDetect_Method(t *testing.T) {
	t.Parallel()

	tests := []struct {
		content string
		want    langdetect.Method
	}{
		{"#!/bin/sh\necho hi", langdetect.MethodShebang},
		{"package main", langdetect.MethodPattern},
		{"", langdetect.MethodFallback},
	}

	for _, tt := range tests {
		if got := langdetect.Detect([]byte(tt.content)).Method; got != tt.want {
			t.Errorf("Detect(%q).Method = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestFromInfoString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info   string
		want   string
		wantOK bool
	}{
		{info: "go", want: "go", wantOK: true},
		{info: "golang", want: "go", wantOK: true},
		{info: "python3", want: "python", wantOK: true},
		{info: "js", want: "javascript", wantOK: true},
		{info: "sh", want: "bash", wantOK: true},
		{info: "python title=demo", want: "python", wantOK: true},
		{info: "", wantOK: false},
		{info: "definitely-not-a-language", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := langdetect.FromInfoString(tt.info)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("FromInfoString(%q) = %q, %v; want %q, %v", tt.info, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDetectBlock(t *testing.T) {
	t.Parallel()

	got := langdetect.DetectBlock("js", []byte("package main"))
	if got.Language != "javascript" || got.Method != langdetect.MethodInfoString {
		t.Errorf("DetectBlock with alias = %+v, want javascript via info string", got)
	}

	got = langdetect.DetectBlock("", []byte("package main"))
	if got.Language != "go" || got.Method != langdetect.MethodPattern {
		t.Errorf("DetectBlock without info = %+v, want go via pattern", got)
	}
}
