// Package outline summarizes the structure of a markdown document using a
// CommonMark parser, for comparison with the Reddit dialect renderer.
package outline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/snoomark/pkg/langdetect"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Link kinds.
const (
	KindLink     = "link"
	KindImage    = "image"
	KindAutoLink = "autolink"
)

// Outline is the structural summary of one document.
type Outline struct {
	Headings   []Heading   `json:"headings"`
	Links      []Link      `json:"links"`
	CodeBlocks []CodeBlock `json:"codeBlocks"`
	Tables     int         `json:"tables"`
}

// Heading is a section title.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	// Line is 1-based.
	Line int `json:"line"`
}

// Link is a link, image or bare URL.
type Link struct {
	Kind        string `json:"kind"`
	Destination string `json:"destination"`
	Title       string `json:"title,omitempty"`
	Text        string `json:"text,omitempty"`
}

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	Fenced   bool             `json:"fenced"`
	Info     string           `json:"info,omitempty"`
	Lines    int              `json:"lines"`
	Language langdetect.Guess `json:"language"`
}

// Parser builds outlines and CommonMark renderings.
type Parser struct {
	flavor string
	md     goldmark.Markdown
}

// New creates a parser for the given flavor. Supported flavors are
// "commonmark" and "gfm"; anything else means "commonmark".
func New(flavor string) *Parser {
	f := flavorOrDefault(flavor)
	return &Parser{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Outline parses content and collects its headings, links, code blocks and
// tables in document order.
func (p *Parser) Outline(ctx context.Context, content []byte) (*Outline, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("outline cancelled: %w", err)
	}

	doc := p.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("outline cancelled: %w", err)
	}

	out := &Outline{
		Headings:   []Heading{},
		Links:      []Link{},
		CodeBlocks: []CodeBlock{},
	}
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			out.Headings = append(out.Headings, Heading{
				Level: node.Level,
				Text:  plainText(node, content),
				Line:  lineOf(node, content),
			})

		case *ast.FencedCodeBlock:
			var info string
			if node.Info != nil {
				info = string(node.Info.Value(content))
			}
			body := blockBody(node, content)
			out.CodeBlocks = append(out.CodeBlocks, CodeBlock{
				Fenced:   true,
				Info:     info,
				Lines:    node.Lines().Len(),
				Language: langdetect.DetectBlock(info, body),
			})

		case *ast.CodeBlock:
			out.CodeBlocks = append(out.CodeBlocks, CodeBlock{
				Lines:    node.Lines().Len(),
				Language: langdetect.Detect(blockBody(node, content)),
			})

		case *ast.Link:
			out.Links = append(out.Links, Link{
				Kind:        KindLink,
				Destination: string(node.Destination),
				Title:       string(node.Title),
				Text:        plainText(node, content),
			})

		case *ast.Image:
			out.Links = append(out.Links, Link{
				Kind:        KindImage,
				Destination: string(node.Destination),
				Title:       string(node.Title),
				Text:        plainText(node, content),
			})

		case *ast.AutoLink:
			out.Links = append(out.Links, Link{
				Kind:        KindAutoLink,
				Destination: string(node.URL(content)),
			})

		case *east.Table:
			out.Tables++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk document: %w", err)
	}

	return out, nil
}

// RenderCommonMark renders content with goldmark's HTML renderer.
func (p *Parser) RenderCommonMark(ctx context.Context, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("render cancelled: %w", err)
	}

	var buf bytes.Buffer
	if err := p.md.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("render commonmark: %w", err)
	}
	return buf.String(), nil
}

// plainText concatenates the text beneath n, with line breaks as spaces.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// blockBody joins the raw lines of a code block.
func blockBody(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.Bytes()
}

// lineOf returns the 1-based line of the first segment of a block node,
// or 0 when it has none.
func lineOf(n ast.Node, src []byte) int {
	lines := n.Lines()
	if lines.Len() == 0 {
		return 0
	}
	return bytes.Count(src[:lines.At(0).Start], []byte("\n")) + 1
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case FlavorGFM:
		opts = append(opts,
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.Linkify,
			),
		)
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}
