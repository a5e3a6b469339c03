package redditmd_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/yaklabco/snoomark/pkg/redditmd"
)

func TestToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "plain paragraph",
			input: "hello world",
			want:  "<p>hello world</p>",
		},
		{
			name:  "paragraphs separated by blank line",
			input: "foo\n\nbar",
			want:  "<p>foo</p>\n\n<p>bar</p>",
		},
		{
			name:  "soft break joins lines",
			input: "a\nb",
			want:  "<p>a b</p>",
		},
		{
			name:  "hard break",
			input: "a  \nb",
			want:  "<p>a<br/>\nb</p>",
		},
		{
			name:  "nested emphasis",
			input: "**a *b* c**",
			want:  "<p><strong>a <em>b</em> c</strong></p>",
		},
		{
			name:  "unclosed delimiter stays literal",
			input: "*no close",
			want:  "<p>*no close</p>",
		},
		{
			name:  "strikethrough",
			input: "~~x~~",
			want:  "<p><del>x</del></p>",
		},
		{
			name:  "spoiler",
			input: "a >!s!< b",
			want:  `<p>a <span class="md-spoiler-text">s</span> b</p>`,
		},
		{
			name:  "inline code with inner backtick",
			input: "``a ` b``",
			want:  "<p><code>a ` b</code></p>",
		},
		{
			name:  "bare superscript",
			input: "x^2 y",
			want:  "<p>x<sup>2</sup> y</p>",
		},
		{
			name:  "parenthesized superscript",
			input: "^(a b) c",
			want:  "<p><sup>a b</sup> c</p>",
		},
		{
			name:  "superscript swallows trailing punctuation",
			input: "2^10.",
			want:  "<p>2<sup>10.</sup></p>",
		},
		{
			name:  "subreddit link",
			input: "/r/pics",
			want:  `<p><a href="/r/pics">/r/pics</a></p>`,
		},
		{
			name:  "subreddit link without leading slash",
			input: "r/pics",
			want:  `<p><a href="/r/pics">r/pics</a></p>`,
		},
		{
			name:  "reddit.com subreddit keeps its suffix",
			input: "/r/reddit.com",
			want:  `<p><a href="/r/reddit.com">/r/reddit.com</a></p>`,
		},
		{
			name:  "other subreddit stops before the dot",
			input: "/r/golang.com",
			want:  `<p><a href="/r/golang">/r/golang</a>.com</p>`,
		},
		{
			name:  "manual link with title",
			input: `[text](https://x.test "Title")`,
			want:  `<p><a href="https://x.test" title="Title">text</a></p>`,
		},
		{
			name:  "heading",
			input: "# Title",
			want:  "<h1>Title</h1>",
		},
		{
			name:  "heading level is clamped",
			input: "####### x",
			want:  "<h6>x</h6>",
		},
		{
			name:  "horizontal rule",
			input: "---",
			want:  "<hr/>",
		},
		{
			name:  "indented code",
			input: "    code\n    more",
			want:  "<pre><code>code\nmore\n</code></pre>",
		},
		{
			name:  "fenced code",
			input: "```\nfoo\n```",
			want:  "<pre><code>foo\n</code></pre>",
		},
		{
			name:  "blockquote",
			input: "> a\n> b",
			want:  "<blockquote>\n<p>a b</p>\n</blockquote>",
		},
		{
			name:  "unordered list",
			input: "- a\n- b",
			want:  "<ul>\n<li>a</li>\n<li>b</li>\n</ul>",
		},
		{
			name:  "ordered list",
			input: "1. a\n2. b",
			want:  "<ol>\n<li>a</li>\n<li>b</li>\n</ol>",
		},
		{
			name:  "nested list",
			input: "- a\n  - b\n- c",
			want:  "<ul>\n<li>a\n\n<ul>\n<li>b</li>\n</ul></li>\n<li>c</li>\n</ul>",
		},
		{
			name:  "list entry promoted by whitespace-only line",
			input: "- item\n  \n  para",
			want:  "<ul>\n<li><p>item</p>\n\n<p>para</p></li>\n</ul>",
		},
		{
			name:  "list entry promoted by empty line",
			input: "- item\n\n  para",
			want:  "<ul>\n<li><p>item</p>\n\n<p>para</p></li>\n</ul>",
		},
		{
			name:  "aligned table",
			input: "|a|b|c|\n|:--|:-:|--:|\n|1|2|3|",
			want: "<table><thead>\n<tr>\n" +
				`<th align="left">a</th>` + "\n" +
				`<th align="center">b</th>` + "\n" +
				`<th align="right">c</th>` + "\n" +
				"</tr>\n</thead><tbody>\n<tr>\n" +
				`<td align="left">1</td>` + "\n" +
				`<td align="center">2</td>` + "\n" +
				`<td align="right">3</td>` + "\n" +
				"</tr>\n</tbody></table>",
		},
		{
			name:  "empty entry promoted without empty paragraph",
			input: "- \n\n  x",
			want:  "<ul>\n<li><p>x</p></li>\n</ul>",
		},
		{
			name:  "short table row spans remaining columns",
			input: "|a|b|c|\n|--|--|--|\n|1|",
			want: "<table><thead>\n<tr>\n<th>a</th>\n<th>b</th>\n<th>c</th>\n" +
				"</tr>\n</thead><tbody>\n<tr>\n<td>1</td>\n" +
				`<td colspan="2"></td>` + "\n" +
				"</tr>\n</tbody></table>",
		},
		{
			name:  "escaped pipe inside a cell",
			input: "|a|b|\n|--|--|\n|x \\| y|z|",
			want: "<table><thead>\n<tr>\n<th>a</th>\n<th>b</th>\n" +
				"</tr>\n</thead><tbody>\n<tr>\n<td>x | y</td>\n<td>z</td>\n" +
				"</tr>\n</tbody></table>",
		},
		{
			name:  "underscores inside a word stay literal",
			input: "snake_case_name",
			want:  "<p>snake_case_name</p>",
		},
		{
			name:  "underscore emphasis closes before whitespace",
			input: "_a_b_ c",
			want:  "<p><em>a_b</em> c</p>",
		},
		{
			name:  "user mention",
			input: "u/foo",
			want:  `<p><a href="/u/foo">u/foo</a></p>`,
		},
		{
			name:  "long user mention",
			input: "/user/bar",
			want:  `<p><a href="/user/bar">/user/bar</a></p>`,
		},
		{
			name:  "mention after a word links from the slash",
			input: "word/r/pics",
			want:  `<p>word/<a href="/r/pics">r/pics</a></p>`,
		},
		{
			name:  "escaped slash drops the backslash",
			input: `\/r/pics`,
			want:  `<p>/<a href="/r/pics">r/pics</a></p>`,
		},
		{
			name:  "bare url ends before closing paren",
			input: "(see https://x.test/a)",
			want:  `<p>(see <a href="https://x.test/a">https://x.test/a</a>)</p>`,
		},
		{
			name:  "ftp url",
			input: "ftp://x.test/f",
			want:  `<p><a href="ftp://x.test/f">ftp://x.test/f</a></p>`,
		},
		{
			name:  "mailto url",
			input: "mailto:a@b.test",
			want:  `<p><a href="mailto:a@b.test">mailto:a@b.test</a></p>`,
		},
		{
			name:  "steam url",
			input: "steam://run/1",
			want:  `<p><a href="steam://run/1">steam://run/1</a></p>`,
		},
		{
			name:  "unterminated inline code",
			input: "`abc",
			want:  "<p>`abc</p>",
		},
		{
			name:  "unterminated manual link keeps the bare url",
			input: "[a](http://x",
			want:  `<p>[a](<a href="http://x">http://x</a></p>`,
		},
		{
			name:  "unterminated parenthesized superscript",
			input: "^(open",
			want:  "<p>^(open</p>",
		},
		{
			name:  "unterminated strikethrough",
			input: "~~a",
			want:  "<p>~~a</p>",
		},
		{
			name:  "unclosed fence is a paragraph",
			input: "```\nfoo",
			want:  "<p>```\nfoo</p>",
		},
		{
			name:  "spoiler broken by blank line",
			input: ">!a\n\nb!<",
			want:  "<p>&gt;!a</p>\n\n<p>b!&lt;</p>",
		},
		{
			name:  "nested blockquote",
			input: "> > a",
			want:  "<blockquote>\n<blockquote>\n<p>a</p>\n</blockquote>\n</blockquote>",
		},
		{
			name:  "quote marker inside a quoted paragraph stays text",
			input: "> a\n> > b",
			want:  "<blockquote>\n<p>a &gt; b</p>\n</blockquote>",
		},
		{
			name:  "list inside a quote",
			input: "> - a",
			want:  "<blockquote>\n<ul>\n<li>a</li>\n</ul>\n</blockquote>",
		},
		{
			name:  "quoted list continues across quoted lines",
			input: "> - a\n> - b",
			want:  "<blockquote>\n<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n</blockquote>",
		},
		{
			name:  "tab in indented code expands to four spaces",
			input: "    a\tb",
			want:  "<pre><code>a    b\n</code></pre>",
		},
		{
			name:  "strong inside emphasis closes the emphasis early",
			input: "*a **b** c*",
			want:  "<p><em>a </em><em>b</em>* c*</p>",
		},
		{
			name:  "document",
			input: "# Title\n\nSome **bold** and [a link](http://x.test).",
			want:  `<h1>Title</h1>` + "\n\n" + `<p>Some <strong>bold</strong> and <a href="http://x.test">a link</a>.</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := redditmd.ToHTML(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ToHTML(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestToHTML_LineEndings(t *testing.T) {
	t.Parallel()

	unix := redditmd.ToHTML("# Title\n\nfirst\nsecond\n")
	assert.Equal(t, unix, redditmd.ToHTML("# Title\r\n\r\nfirst\r\nsecond\r\n"))
	assert.Equal(t, unix, redditmd.ToHTML("# Title\r\rfirst\rsecond\r"))
}

func TestToHTML_SurroundingBlankLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<p>hello</p>", redditmd.ToHTML("\n\n  \nhello  \n\n\n"))
}

func TestConvert(t *testing.T) {
	t.Parallel()

	out, err := redditmd.Convert("**bold**")
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>bold</strong></p>", out)
}

func TestSelectionError(t *testing.T) {
	t.Parallel()

	err := error(&redditmd.SelectionError{Production: "block", Offset: 7})
	require.ErrorIs(t, err, redditmd.ErrNoProduction)
	assert.Contains(t, err.Error(), "block")
	assert.Contains(t, err.Error(), "offset 7")

	var selErr *redditmd.SelectionError
	require.True(t, errors.As(err, &selErr))
	assert.Equal(t, 7, selErr.Offset)
}

var allowedTags = map[string]bool{
	"p": true, "strong": true, "em": true, "del": true, "span": true,
	"sup": true, "code": true, "a": true, "hr": true, "br": true,
	"pre": true, "blockquote": true, "ul": true, "ol": true, "li": true,
	"table": true, "thead": true, "tbody": true, "tr": true, "th": true,
	"td": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true,
}

// assertEscaped tokenizes out and checks that only generated tags appear and
// that no text token carries a raw special character.
func assertEscaped(t *testing.T, out string) {
	t.Helper()

	z := html.NewTokenizer(strings.NewReader(out))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			require.ErrorIs(t, z.Err(), io.EOF)
			return
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			assert.True(t, allowedTags[string(name)], "unexpected tag %q in %q", name, out)
		case html.TextToken:
			raw := string(z.Raw())
			assert.False(t, strings.ContainsAny(raw, `<>"'`), "unescaped text %q in %q", raw, out)
		}
	}
}

func TestToHTML_EscapesUserText(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<script>alert('x')</script>",
		`"quoted" & 'single'`,
		"`<b>code</b>`",
		"    <i>indented</i>",
		"> <em>quoted</em>",
		"- <li>item</li>",
		"|<th>|b|\n|--|--|\n|<td>|\"|",
		`[<b>x</b>](http://x.test "a'b")`,
		"# <h1>",
		"**<u>bold</u>**",
		"^(<sup>)",
	}

	for _, in := range inputs {
		out := redditmd.ToHTML(in)
		assertEscaped(t, out)
	}
}

func TestToHTML_KeepsEntities(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<p>&amp; and &#169;</p>", redditmd.ToHTML("&amp; and &#169;"))
	assert.Equal(t, "<p>fish &amp; chips</p>", redditmd.ToHTML("fish & chips"))
}

func TestToHTML_BackslashEscapes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<p>*not em*</p>", redditmd.ToHTML(`\*not em\*`))
}
