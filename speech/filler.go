package speech

import (
	"strings"
	"unicode"
)

// FillerHit is one filler token and its position among the whitespace
// separated tokens of the transcript.
type FillerHit struct {
	Word  string `json:"word"`
	Index int    `json:"index"`
}

// Lexicon is a set of filler words. Matching is exact per token.
type Lexicon map[string]struct{}

func NewLexicon(words ...string) Lexicon {
	l := make(Lexicon, len(words))
	for _, w := range words {
		l[w] = struct{}{}
	}
	return l
}

// DefaultLexicon holds common Korean hesitation sounds and discourse fillers.
var DefaultLexicon = NewLexicon(
	"음", "으음", "음음", "어", "어어", "아", "그", "저", "뭐",
	"이제", "그니까", "그러니까", "약간", "막", "좀", "그냥",
)

// Find strips punctuation, splits on whitespace and reports every token that
// is in the lexicon.
func (l Lexicon) Find(text string) []FillerHit {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, text)

	var hits []FillerHit
	for i, tok := range strings.Fields(clean) {
		if _, ok := l[tok]; ok {
			hits = append(hits, FillerHit{Word: tok, Index: i})
		}
	}
	return hits
}

func FindFillers(text string) []FillerHit { return DefaultLexicon.Find(text) }
