package lattice_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmilyReif/llm-consistency-vis-sub000/embed"
	"github.com/EmilyReif/llm-consistency-vis-sub000/lattice"
	"github.com/EmilyReif/llm-consistency-vis-sub000/token"
)

// gatedProvider blocks the very first Embed until released, so tests can
// hold one build mid-flight while another overtakes it. Later calls pass
// straight through.
type gatedProvider struct {
	inner   embed.Provider
	started chan struct{}
	release chan struct{}
	first   atomic.Bool
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{
		inner:   embed.NewBagOfWords(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if g.first.CompareAndSwap(false, true) {
		close(g.started)
		<-g.release
	}
	return g.inner.Embed(ctx, text)
}

func (g *gatedProvider) Dim() int { return g.inner.Dim() }

// tallyProvider counts inner lookups; safe for Warm's concurrency.
type tallyProvider struct {
	inner embed.Provider
	calls atomic.Int64
}

func (t *tallyProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	t.calls.Add(1)
	return t.inner.Embed(ctx, text)
}

func (t *tallyProvider) Dim() int { return t.inner.Dim() }

// TestSession_RebuildAndLatest verifies the plain single-build flow.
func TestSession_RebuildAndLatest(t *testing.T) {
	s, err := lattice.NewSession()
	require.NoError(t, err)
	assert.Nil(t, s.Latest(), "no lattice before the first rebuild")

	groups := []lattice.PromptGroup{lattice.Group("p", "the cat sat", "the dog sat")}
	lat, err := s.Rebuild(context.Background(), groups)
	require.NoError(t, err)
	require.NotNil(t, lat)
	assert.Same(t, lat, s.Latest())
}

// TestSession_SupersededBuildIsDropped verifies the single-flight rule: a
// build overtaken by a newer request returns ErrBuildSuperseded and never
// replaces the latest lattice.
func TestSession_SupersededBuildIsDropped(t *testing.T) {
	gate := newGatedProvider()
	s, err := lattice.NewSession(lattice.WithProvider(gate))
	require.NoError(t, err)

	groups := []lattice.PromptGroup{lattice.Group("p", "the cat sat")}

	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Rebuild(context.Background(), groups)
		firstErr <- err
	}()
	<-gate.started // first rebuild is mid-flight

	second, err := s.Rebuild(context.Background(), groups)
	require.NoError(t, err, "the newer rebuild must win")
	require.NotNil(t, second)

	close(gate.release)
	assert.ErrorIs(t, <-firstErr, lattice.ErrBuildSuperseded)
	assert.Same(t, second, s.Latest(), "a superseded build must not replace the latest lattice")
}

// TestSession_WarmHeatsTheCache verifies a warmed session rebuilds without
// reaching the inner provider again.
func TestSession_WarmHeatsTheCache(t *testing.T) {
	tally := &tallyProvider{inner: embed.NewBagOfWords()}
	memo, err := embed.NewMemoized(tally)
	require.NoError(t, err)
	s, err := lattice.NewSession(lattice.WithProvider(memo))
	require.NoError(t, err)

	groups := []lattice.PromptGroup{lattice.Group("p", "the cat sat", "the dog sat")}
	require.NoError(t, s.Warm(context.Background(), groups, token.Word))

	warmed := tally.calls.Load()
	assert.EqualValues(t, 4, warmed, "one lookup per distinct span: the, cat, sat, dog")

	_, err = s.Rebuild(context.Background(), groups)
	require.NoError(t, err)
	assert.Equal(t, warmed, tally.calls.Load(), "a warmed rebuild must be all cache hits")
}

// TestSession_WarmUnknownMode pins mode validation in Warm.
func TestSession_WarmUnknownMode(t *testing.T) {
	s, err := lattice.NewSession()
	require.NoError(t, err)

	err = s.Warm(context.Background(),
		[]lattice.PromptGroup{lattice.Group("p", "hello")}, token.Mode(42))
	assert.ErrorIs(t, err, token.ErrUnknownMode)
}
