package embed

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// DefaultDim is the vector length used by NewBagOfWords when no
// BagOfWordsOption overrides it.
const DefaultDim = 256

// BagOfWordsOption configures a BagOfWords provider before first use.
type BagOfWordsOption func(*BagOfWords)

// WithDim sets the vector dimension. Non-positive values fall back to
// DefaultDim.
func WithDim(dim int) BagOfWordsOption {
	return func(b *BagOfWords) {
		if dim > 0 {
			b.dim = dim
		}
	}
}

// WithBagOfWordsLogger attaches a logger for vocabulary growth events.
// A nil logger leaves the default no-op logger in place.
func WithBagOfWordsLogger(logger *zap.Logger) BagOfWordsOption {
	return func(b *BagOfWords) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// BagOfWords is a deterministic local Provider: every distinct word claims
// the next free slot in a shared vocabulary, and a span embeds as the
// L2-normalized count vector of its words' slots.
//
// Two properties the lattice relies on:
//
//   - Identical spans embed identically (cosine 1.0).
//   - Distinct single words occupy distinct slots (cosine 0.0) until the
//     vocabulary exceeds dim, after which slots wrap and collisions begin.
//
// Safe for concurrent use; the vocabulary is guarded by an RWMutex.
type BagOfWords struct {
	mu      sync.RWMutex
	dim     int
	vocab   map[string]int // word → slot
	nextIdx int
	logger  *zap.Logger
}

// NewBagOfWords constructs a provider with DefaultDim slots, an empty
// vocabulary and a no-op logger, then applies opts in order.
// Complexity: O(len(opts)).
func NewBagOfWords(opts ...BagOfWordsOption) *BagOfWords {
	b := &BagOfWords{
		dim:    DefaultDim,
		vocab:  make(map[string]int),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Dim reports the fixed vector length.
func (b *BagOfWords) Dim() int { return b.dim }

// Embed maps text to its term-count vector, unit-scaled. An empty or
// all-punctuation span embeds as the zero vector (which downstream cosine
// treats as "no information", scoring 0 against anything).
// Complexity: O(words in text).
func (b *BagOfWords) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, b.dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = Normalize(word)
		if word == "" {
			continue
		}
		vec[b.slot(word)]++
	}

	// Unit-scale so cosine reduces to a dot product of counts.
	if n := floats.Norm(vec, 2); n > 0 {
		floats.Scale(1/n, vec)
	}

	return vec, nil
}

// slot returns the vocabulary slot for word, claiming the next free one on
// first sight. Slots wrap modulo dim once the vocabulary outgrows it.
func (b *BagOfWords) slot(word string) int {
	b.mu.RLock()
	idx, ok := b.vocab[word]
	b.mu.RUnlock()
	if ok {
		return idx
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// Re-check under the write lock; another goroutine may have claimed it.
	if idx, ok = b.vocab[word]; ok {
		return idx
	}
	idx = b.nextIdx % b.dim
	b.vocab[word] = idx
	b.nextIdx++
	if b.nextIdx == b.dim+1 {
		b.logger.Warn("bag-of-words vocabulary exceeded dimension; slots now collide",
			zap.Int("dim", b.dim))
	}

	return idx
}
