package redditmd

// inline is a run of inline content: links, styled spans, superscript,
// inline code and plain text, tried in that order at every boundary.
type inline struct {
	body seq
}

func newInline(links bool, excluded styleSet) *inline {
	candidates := make([]kind, 0, 5)
	if links {
		candidates = append(candidates, kindLink)
	}
	candidates = append(candidates, kindStyled, kindSuperscript, kindInlineCode, kindText)

	in := &inline{body: newSeq(kindInline, options{links: links, styles: excluded}, candidates...)}
	in.body.repeat = true
	return in
}

func (in *inline) kind() kind                { return kindInline }
func (in *inline) canStart(c *cursor) bool   { return in.body.canStartAny(c) }
func (in *inline) consume(c *cursor) outcome { return in.body.consume(c) }
func (in *inline) canConsume(c *cursor) bool { return in.body.canConsume(c) }
func (in *inline) html() string              { return in.body.html() }
