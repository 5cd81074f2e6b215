package embed

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the Memoized LRU when no explicit size is given.
const DefaultCacheSize = 500

// Memoized decorates a Provider with a bounded LRU cache keyed on
// Normalize(text). Cache warmth materially affects lattice build latency,
// since every token and both of its context neighbors are embedded.
//
// Cached vectors are shared, not copied; callers must treat Embed results
// as read-only.
type Memoized struct {
	inner Provider
	cache *lru.Cache[string, []float64]
}

// NewMemoized wraps p behind a DefaultCacheSize-entry LRU.
func NewMemoized(p Provider) (*Memoized, error) {
	return NewMemoizedSize(p, DefaultCacheSize)
}

// NewMemoizedSize wraps p behind an LRU bounded at size entries.
// Returns ErrNilProvider or ErrBadCacheSize on invalid arguments.
func NewMemoizedSize(p Provider, size int) (*Memoized, error) {
	if p == nil {
		return nil, ErrNilProvider
	}
	if size <= 0 {
		return nil, ErrBadCacheSize
	}
	cache, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, err
	}

	return &Memoized{inner: p, cache: cache}, nil
}

// Dim reports the wrapped provider's vector length.
func (m *Memoized) Dim() int { return m.inner.Dim() }

// Embed returns the cached vector for text when present, otherwise embeds
// through the wrapped provider and caches the result. Failed embeddings are
// not cached, so a transient provider error does not pin a miss.
func (m *Memoized) Embed(ctx context.Context, text string) ([]float64, error) {
	key := Normalize(text)
	if vec, ok := m.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := m.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	m.cache.Add(key, vec)

	return vec, nil
}

// Len reports the number of cached entries (diagnostic; bounded by the
// configured size).
func (m *Memoized) Len() int { return m.cache.Len() }
