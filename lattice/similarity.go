// Similarity scoring between a fresh token and an existing node's anchor.
//
// The two comparison sides share one concrete shape, anchor, resolved
// either from a raw token or from the occurrence that first keyed a node.
// That keeps the scoring function total over "token or merged reference"
// without any ad-hoc duck typing.

package lattice

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/EmilyReif/llm-consistency-vis-sub000/token"
)

// Cosine returns the cosine similarity of a and b.
//
// By convention the result is 0 when either vector is absent, all-zero, or
// the lengths differ: missing data carries no signal and must not score
// spuriously high. Cosine of two identical non-zero vectors is 1 within
// floating tolerance.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}

	return floats.Dot(a, b) / (na * nb)
}

// anchor is the tagged-union comparison reference: the raw fields of a
// token, or of the first occurrence recorded for a node.
type anchor struct {
	text     string
	position int
	prev     string
	next     string
	vec      []float64
	prevVec  []float64
	nextVec  []float64
}

// anchorOf resolves a token into its comparison reference.
func anchorOf(t token.Token) anchor {
	return anchor{
		text:     t.Text,
		position: t.Position,
		prev:     t.Prev,
		next:     t.Next,
		vec:      t.Vec,
		prevVec:  t.PrevVec,
		nextVec:  t.NextVec,
	}
}

// contextComparable reports whether a qualifies for context comparison:
// a stopword with both neighbors defined (not at the very start or end of
// its generation, nor surrounded only by stopwords).
func (a anchor) contextComparable() bool {
	return token.IsStopword(a.text) && a.prev != "" && a.next != ""
}

// similarity scores how interchangeable a and b are.
//
// Two flanked stopwords compare by context: the previous-neighbor cosine
// plus the next-neighbor cosine, each floored at 0, summed (not averaged).
// Every other pair compares by direct cosine of the tokens' own
// embeddings. Either way the positional penalty |posA−posB|/20 is
// subtracted. The result is not clamped and can be negative.
func similarity(a, b anchor) float64 {
	var score float64
	if a.contextComparable() && b.contextComparable() {
		score = math.Max(Cosine(a.prevVec, b.prevVec), 0) +
			math.Max(Cosine(a.nextVec, b.nextVec), 0)
	} else {
		score = Cosine(a.vec, b.vec)
	}

	return score - math.Abs(float64(a.position-b.position))/positionPenaltyDivisor
}
