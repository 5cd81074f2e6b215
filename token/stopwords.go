package token

import "github.com/EmilyReif/llm-consistency-vis-sub000/embed"

// stopwords is the small fixed set of English function words. Members are
// compared on the lowercased, punctuation-stripped form, so "The," and
// "the" both match.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "from": {}, "has": {},
	"he": {}, "in": {}, "is": {}, "it": {}, "its": {}, "of": {},
	"on": {}, "or": {}, "that": {}, "the": {}, "their": {}, "this": {},
	"to": {}, "was": {}, "were": {}, "which": {}, "who": {}, "with": {},
}

// IsStopword reports whether s is a function word, after stripping
// punctuation/whitespace and lowercasing.
func IsStopword(s string) bool {
	_, ok := stopwords[embed.Normalize(s)]
	return ok
}
