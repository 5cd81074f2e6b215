package token

import (
	"context"
	"errors"

	"github.com/EmilyReif/llm-consistency-vis-sub000/embed"
)

// Sentinel errors for tokenization.
var (
	// ErrNilProvider is returned when no embedding provider is supplied.
	ErrNilProvider = errors.New("token: embedding provider is nil")

	// ErrUnknownMode is returned for a Mode outside the declared enum.
	ErrUnknownMode = errors.New("token: unknown split mode")
)

// Token is one position-tagged span of a generation, enriched with its
// nearest non-stopword neighbors and their embeddings.
//
// Tokens are ephemeral: the tokenizer produces them, the lattice builder
// consumes them within the same pass, and nothing retains them afterwards.
type Token struct {
	// Text is the surface text of the span.
	Text string

	// Generation is the index of the generation this token came from.
	Generation int

	// Position is the index of this token within its generation.
	Position int

	// Prev is the surface text of the nearest earlier non-stopword token,
	// or "" when none exists.
	Prev string

	// Next is the surface text of the nearest later non-stopword token,
	// or "" when none exists.
	Next string

	// Vec is the token's own embedding; nil when the provider failed.
	Vec []float64

	// PrevVec is the embedding of Prev; nil when Prev is "" or the
	// provider failed.
	PrevVec []float64

	// NextVec is the embedding of Next; nil when Next is "" or the
	// provider failed.
	NextVec []float64
}

// Tokenize splits one generation into its ordered token run.
//
// For each token it locates the nearest non-stopword neighbor on either
// side and embeds the token plus each non-empty neighbor through p.
// Provider failures leave the affected vector nil; they never fail the
// call. Lookups are sequential per token, so a memoized provider keeps
// repeated surfaces cheap.
//
// Complexity: O(n²) neighbor scans worst case (all-stopword runs),
// O(n) provider lookups, n = token count.
func Tokenize(ctx context.Context, p embed.Provider, text string, generation int, mode Mode) ([]Token, error) {
	if p == nil {
		return nil, ErrNilProvider
	}

	chunks, err := Split(text, mode)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	tokens := make([]Token, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tok := Token{
			Text:       chunk,
			Generation: generation,
			Position:   i,
			Prev:       nearest(chunks, i-1, -1),
			Next:       nearest(chunks, i+1, +1),
		}

		// Embedding failures are local: the vector stays nil and the
		// similarity layer scores it as zero information.
		tok.Vec, _ = p.Embed(ctx, tok.Text)
		if tok.Prev != "" {
			tok.PrevVec, _ = p.Embed(ctx, tok.Prev)
		}
		if tok.Next != "" {
			tok.NextVec, _ = p.Embed(ctx, tok.Next)
		}
		tokens[i] = tok
	}

	return tokens, nil
}

// nearest scans chunks from index from in steps of dir and returns the
// first non-stopword surface, or "" when the scan runs off the end.
func nearest(chunks []string, from, dir int) string {
	for i := from; i >= 0 && i < len(chunks); i += dir {
		if !IsStopword(chunks[i]) {
			return chunks[i]
		}
	}

	return ""
}
