// Package redditmd converts Reddit-flavored markdown into HTML.
//
// The converter is a single forward pass over the source. A cursor walks the
// text one character at a time and every grammar production is a small state
// machine that is fed the character under the cursor. Composite productions
// pick a child with a non-consuming lookahead (canStart) and delegate to it
// until the child reports that it has ended.
//
// Supported syntax:
//   - strong, emphasis, strikethrough and spoiler spans
//   - inline code with arbitrary backtick fences
//   - superscript, bare or parenthesized
//   - bare reddit mentions (/r/name, /u/name), bare URLs and [label](url "title") links
//   - headings, horizontal rules, paragraphs
//   - indented and fenced code blocks
//   - blockquotes, ordered and unordered lists with nesting, pipe tables
//
// Malformed input is never an error: unterminated delimiters are rendered
// back out as escaped literal text.
package redditmd
