package redditmd

import (
	"strings"
	"testing"
)

const benchPost = `# Weekly discussion

Post your questions in /r/golang, and **please** read the *rules* first.
Spoilers go in >!tags like this!< and exponents like 2^10 are fine.

- first item with a [link](https://example.com "Example")
- second item
  - nested item

> quoted text
> continues here

|name|score|
|:--|--:|
|a|1|
|b|2|

    indented code
    more code
`

func BenchmarkToHTML(b *testing.B) {
	b.ReportAllocs()
	for range b.N {
		ToHTML(benchPost)
	}
}

func BenchmarkToHTMLLarge(b *testing.B) {
	post := strings.Repeat(benchPost+"\n", 50)
	b.SetBytes(int64(len(post)))
	b.ResetTimer()
	for range b.N {
		ToHTML(post)
	}
}

func BenchmarkToHTMLManyOpeners(b *testing.B) {
	post := strings.Repeat("*a ", 20000)
	b.SetBytes(int64(len(post)))
	b.ResetTimer()
	for range b.N {
		ToHTML(post)
	}
}
