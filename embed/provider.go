package embed

import (
	"context"
	"errors"
	"strings"
	"unicode"
)

// Sentinel errors for provider construction and decoration.
var (
	// ErrNilProvider indicates a decorator was given a nil Provider.
	ErrNilProvider = errors.New("embed: provider is nil")

	// ErrBadCacheSize indicates a non-positive LRU capacity.
	ErrBadCacheSize = errors.New("embed: cache size must be positive")
)

// Provider converts a text span into a fixed-length numeric vector.
//
// Implementations must be deterministic for a given instance: embedding the
// same text twice returns equal vectors. Embed may block (remote models);
// it must honor ctx cancellation. A returned error marks the embedding as
// absent — callers degrade locally and never abort a whole build over it.
type Provider interface {
	// Embed returns the vector for text, or an error if the embedding
	// could not be produced.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dim reports the length of every vector Embed returns.
	Dim() int
}

// Normalize canonicalizes text for cache keys and stopword checks:
// lowercased, with all punctuation and whitespace stripped.
// Normalize("Hello, World!") == "helloworld".
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
