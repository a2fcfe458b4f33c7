package crawler

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Tokenizer segments Japanese captures into candidate terms for the
// classifier. Western text splits on whitespace; CJK text has no word
// boundaries, so a morphological analyzer does the segmentation.
//
// Construct one explicitly and reuse it: loading the IPA dictionary is
// expensive.
type Tokenizer struct {
	t *tokenizer.Tokenizer
}

// NewTokenizer creates a tokenizer backed by the IPA dictionary.
func NewTokenizer() (*Tokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Tokenizer{t: t}, nil
}

// CandidateTerms extracts noun and proper-noun surfaces from the capture.
// These are the fragments worth running through Classify: particles,
// auxiliaries and inflections carry no glossary value.
func (tk *Tokenizer) CandidateTerms(text string) []string {
	tokens := tk.t.Tokenize(text)

	var terms []string
	seen := make(map[string]bool)
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		term := current.String()
		current.Reset()
		if !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}

	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		features := token.Features()
		if len(features) == 0 || strings.TrimSpace(token.Surface) == "" {
			flush()
			continue
		}
		// IPA feature 0 is the part of speech; 名詞 is "noun".
		if features[0] == "名詞" {
			// Adjacent nouns form compound terms ("魔法剣士").
			current.WriteString(token.Surface)
			continue
		}
		flush()
	}
	flush()
	return terms
}
