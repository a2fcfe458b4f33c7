package crawler

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup removes inline rich-text tags from a capture, returning only
// the visible text. Game engines embed formatting in strings the same way
// HTML does (<b>, <i>, <color=#ff0000>, <size=24>, ruby annotations), and
// those tags must never reach the classifier or the matchers.
//
// The input is tokenized rather than parsed as a document: captures are
// fragments, frequently with unbalanced tags, and every text byte must
// survive even when the markup is malformed.
func StripMarkup(text string) string {
	if !strings.ContainsRune(text, '<') {
		return strings.TrimSpace(text)
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tokenizer.Text())
		}
	}
	return strings.TrimSpace(b.String())
}
