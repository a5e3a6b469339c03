package outline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snoomark/pkg/langdetect"
	"github.com/yaklabco/snoomark/pkg/outline"
)

func TestNew_Flavor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		flavor     string
		wantFlavor string
	}{
		{"commonmark", outline.FlavorCommonMark, outline.FlavorCommonMark},
		{"gfm", outline.FlavorGFM, outline.FlavorGFM},
		{"invalid defaults to commonmark", "reddit", outline.FlavorCommonMark},
		{"empty defaults to commonmark", "", outline.FlavorCommonMark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantFlavor, outline.New(tt.flavor).Flavor())
		})
	}
}

const sample = "# Title *here*\n" +
	"\n" +
	"See [the docs](https://example.test \"Docs\") and ![logo](logo.png).\n" +
	"\n" +
	"## Code\n" +
	"\n" +
	"```go\n" +
	"fmt.Println(\"hi\")\n" +
	"```\n" +
	"\n" +
	"    SELECT * FROM posts;\n" +
	"\n" +
	"| a | b |\n" +
	"|---|---|\n" +
	"| 1 | 2 |\n" +
	"\n" +
	"Visit https://reddit.test today.\n"

func TestParser_Outline(t *testing.T) {
	t.Parallel()

	got, err := outline.New(outline.FlavorGFM).Outline(context.Background(), []byte(sample))
	require.NoError(t, err)

	assert.Equal(t, []outline.Heading{
		{Level: 1, Text: "Title here", Line: 1},
		{Level: 2, Text: "Code", Line: 5},
	}, got.Headings)

	assert.Equal(t, []outline.Link{
		{Kind: outline.KindLink, Destination: "https://example.test", Title: "Docs", Text: "the docs"},
		{Kind: outline.KindImage, Destination: "logo.png", Text: "logo"},
		{Kind: outline.KindAutoLink, Destination: "https://reddit.test"},
	}, got.Links)

	require.Len(t, got.CodeBlocks, 2)
	assert.Equal(t, outline.CodeBlock{
		Fenced:   true,
		Info:     "go",
		Lines:    1,
		Language: langdetect.Guess{Language: "go", Method: langdetect.MethodInfoString},
	}, got.CodeBlocks[0])
	assert.False(t, got.CodeBlocks[1].Fenced)
	assert.Equal(t, "sql", got.CodeBlocks[1].Language.Language)

	assert.Equal(t, 1, got.Tables)
}

func TestParser_Outline_CommonMarkHasNoTables(t *testing.T) {
	t.Parallel()

	got, err := outline.New(outline.FlavorCommonMark).Outline(context.Background(), []byte(sample))
	require.NoError(t, err)
	assert.Zero(t, got.Tables)
	for _, link := range got.Links {
		assert.NotEqual(t, outline.KindAutoLink, link.Kind, "bare URLs are not linked without linkify")
	}
}

func TestParser_Outline_Empty(t *testing.T) {
	t.Parallel()

	got, err := outline.New(outline.FlavorGFM).Outline(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got.Headings)
	assert.NotNil(t, got.Links)
	assert.Empty(t, got.CodeBlocks)
}

func TestParser_Outline_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := outline.New(outline.FlavorGFM).Outline(ctx, []byte("# x"))
	require.ErrorIs(t, err, context.Canceled)

	_, err = outline.New(outline.FlavorGFM).RenderCommonMark(ctx, []byte("# x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParser_RenderCommonMark(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		flavor string
		input  string
		want   string
	}{
		{"heading", outline.FlavorCommonMark, "# Hi", "<h1>Hi</h1>\n"},
		{"strikethrough needs gfm", outline.FlavorCommonMark, "~~x~~", "<p>~~x~~</p>\n"},
		{"gfm strikethrough", outline.FlavorGFM, "~~x~~", "<p><del>x</del></p>\n"},
		{"spoilers are plain text", outline.FlavorGFM, "a >!b!<", "<p>a &gt;!b!&lt;</p>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := outline.New(tt.flavor).RenderCommonMark(context.Background(), []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
