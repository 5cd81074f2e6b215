package lattice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmilyReif/llm-consistency-vis-sub000/lattice"
	"github.com/EmilyReif/llm-consistency-vis-sub000/token"
)

func keys(nodes []*lattice.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}
	return out
}

// TestBuild_SharedRootAndEnd pins the canonical scenario: two generations
// "the cat sat" / "the dog sat" share "the" and "sat", while "cat"/"dog"
// stay distinct branches.
func TestBuild_SharedRootAndEnd(t *testing.T) {
	lat, err := lattice.Build(
		[]lattice.PromptGroup{lattice.Group("p", "the cat sat", "the dog sat")},
		lattice.WithoutCompaction(),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"the", "cat", "sat", "dog"}, keys(lat.Nodes()))

	the, _ := lat.Node("the")
	assert.Equal(t, 2, the.Count, `"the" absorbs both generations`)
	assert.True(t, the.Root)
	assert.Equal(t, []int{0, 1}, the.Generations())

	sat, _ := lat.Node("sat")
	assert.Equal(t, 2, sat.Count, `"sat" absorbs both generations`)
	assert.True(t, sat.End)

	cat, _ := lat.Node("cat")
	assert.Equal(t, 1, cat.Count, `"cat" and "dog" must not merge`)

	// Four edge groups, one per branch segment.
	edges := lat.Edges()
	require.Len(t, edges, 4)
	assert.Equal(t, "the", edges[0].From)
	assert.Equal(t, "cat", edges[0].To)
	assert.Equal(t, "the", edges[1].From)
	assert.Equal(t, "dog", edges[1].To)
}

// TestBuild_SingleToken verifies one generation "hello" yields exactly one
// node flagged both root and end, with no edges.
func TestBuild_SingleToken(t *testing.T) {
	lat, err := lattice.Build([]lattice.PromptGroup{lattice.Group("p", "hello")})
	require.NoError(t, err)

	nodes := lat.Nodes()
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].Root)
	assert.True(t, nodes[0].End)
	assert.Empty(t, lat.Edges())
}

// TestBuild_EmptyInput verifies an empty groups list yields an empty
// lattice, and an empty generation contributes nothing.
func TestBuild_EmptyInput(t *testing.T) {
	lat, err := lattice.Build(nil)
	require.NoError(t, err)
	assert.Empty(t, lat.Nodes())
	assert.Empty(t, lat.Edges())

	lat, err = lattice.Build([]lattice.PromptGroup{lattice.Group("p", "", "hello")})
	require.NoError(t, err)
	assert.Len(t, lat.Nodes(), 1)
}

// TestBuild_ThresholdIsStrictGate verifies the gate: a score equal to the
// threshold does not merge, a score above it does.
func TestBuild_ThresholdIsStrictGate(t *testing.T) {
	groups := []lattice.PromptGroup{lattice.Group("p", "alpha", "alpha")}

	// Identical tokens score exactly 1.0; threshold 1.0 must block.
	lat, err := lattice.Build(groups, lattice.WithThreshold(1.0), lattice.WithoutCompaction())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "alpha#2"}, keys(lat.Nodes()),
		"score == threshold must not merge")

	lat, err = lattice.Build(groups, lattice.WithThreshold(0.99), lattice.WithoutCompaction())
	require.NoError(t, err)
	assert.Len(t, lat.Nodes(), 1, "score above threshold must merge")
}

// TestBuild_ThresholdAboveCeilingMergesNothing verifies a threshold above
// the direct-score ceiling keeps every token distinct.
func TestBuild_ThresholdAboveCeilingMergesNothing(t *testing.T) {
	lat, err := lattice.Build(
		[]lattice.PromptGroup{lattice.Group("p",
			"glowing vine creature", "glowing vine guardian")},
		lattice.WithThreshold(1.5), lattice.WithoutCompaction(),
	)
	require.NoError(t, err)

	assert.Len(t, lat.Nodes(), 6, "no token pair may merge above the ceiling")
	for _, n := range lat.Nodes() {
		assert.Equal(t, 1, n.Count)
	}
}

// TestBuild_NoSameGenerationDoubleAbsorb verifies the conflict rule on a
// generation that repeats a surface: the second "the" gets its own node.
func TestBuild_NoSameGenerationDoubleAbsorb(t *testing.T) {
	lat, err := lattice.Build(
		[]lattice.PromptGroup{lattice.Group("p", "the cat and the dog")},
		lattice.WithoutCompaction(),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"the", "cat", "and", "the#2", "dog"}, keys(lat.Nodes()))
	for _, n := range lat.Nodes() {
		assert.Len(t, n.Occurrences, 1, "node %q may hold one occurrence of the generation", n.Key)
	}

	second, ok := lat.Node("the#2")
	require.True(t, ok)
	assert.Equal(t, "the", second.Label, "display label stays the surface text")
}

// TestBuild_CycleGuardRejectsBackMerge verifies a merge that would close a
// directed cycle is turned into a fresh node instead.
func TestBuild_CycleGuardRejectsBackMerge(t *testing.T) {
	groups := []lattice.PromptGroup{lattice.Group("p", "alpha beta", "beta alpha")}

	lat, err := lattice.Build(groups, lattice.WithoutCompaction())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "alpha#2"}, keys(lat.Nodes()),
		"gen1's alpha must not merge back into the node its predecessor reaches")

	// With the guard off the back-merge happens and the lattice holds the
	// cycle alpha→beta→alpha.
	lat, err = lattice.Build(groups, lattice.WithoutCompaction(), lattice.WithoutCycleGuard())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, keys(lat.Nodes()))
	_, hasBack := lat.EdgeBetween("beta", "alpha")
	assert.True(t, hasBack)
}

// TestBuild_AnchorIsFirstOccurrence pins the comparison-anchor policy: a
// node is always compared through its first recorded occurrence, not the
// most recent one.
func TestBuild_AnchorIsFirstOccurrence(t *testing.T) {
	// "alpha" is first seen at position 1 (gen0), then merges at position
	// 0 (gen1). A gen2 "alpha" at position 10 scores 1−9/20 = 0.55
	// against the first anchor but only 1−10/20 = 0.50 against the most
	// recent one — with the default 0.5 gate, merging proves the anchor
	// is the first occurrence.
	gen2 := "b1 b2 b3 b4 b5 b6 b7 b8 b9 b10 alpha"
	lat, err := lattice.Build(
		[]lattice.PromptGroup{lattice.Group("p", "x alpha", "alpha", gen2)},
		lattice.WithoutCompaction(),
	)
	require.NoError(t, err)

	alpha, ok := lat.Node("alpha")
	require.True(t, ok)
	assert.Equal(t, 3, alpha.Count, "gen2's alpha must merge via the first-occurrence anchor")
}

// TestBuild_PromptProvenance verifies prompt ids land on nodes and on
// every traversal, with generation indices global across groups.
func TestBuild_PromptProvenance(t *testing.T) {
	lat, err := lattice.Build(
		[]lattice.PromptGroup{
			lattice.Group("monsters", "the cat"),
			lattice.Group("places", "the cat"),
		},
		lattice.WithoutCompaction(),
	)
	require.NoError(t, err)

	the, ok := lat.Node("the")
	require.True(t, ok)
	assert.Equal(t, []string{"monsters", "places"}, the.Prompts)
	assert.Equal(t, []int{0, 1}, the.Generations(), "generation indices are global across groups")

	e, ok := lat.EdgeBetween("the", "cat")
	require.True(t, ok)
	require.Len(t, e.Traversals, 2, "traversals are retained per generation, never deduplicated")
	assert.Equal(t, lattice.Traversal{Generation: 0, Prompt: "monsters"}, e.Traversals[0])
	assert.Equal(t, lattice.Traversal{Generation: 1, Prompt: "places"}, e.Traversals[1])
}

// TestBuild_EmptyPromptIDGetsFallback verifies an empty prompt id is
// replaced rather than recorded empty.
func TestBuild_EmptyPromptIDGetsFallback(t *testing.T) {
	lat, err := lattice.Build([]lattice.PromptGroup{lattice.Group("", "hello")})
	require.NoError(t, err)

	nodes := lat.Nodes()
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Prompts, 1)
	assert.NotEmpty(t, nodes[0].Prompts[0])
}

// TestBuild_Deterministic verifies identical inputs build identical
// lattices.
func TestBuild_Deterministic(t *testing.T) {
	groups := []lattice.PromptGroup{lattice.Group("p",
		"the glowing vine ensnares travelers",
		"the glowing vine guards travelers",
		"a cursed vine lures the lost",
	)}

	a, err := lattice.Build(groups)
	require.NoError(t, err)
	b, err := lattice.Build(groups)
	require.NoError(t, err)

	assert.Equal(t, keys(a.Nodes()), keys(b.Nodes()))
	require.Equal(t, len(a.Edges()), len(b.Edges()))
	for i, e := range a.Edges() {
		assert.Equal(t, e.From, b.Edges()[i].From)
		assert.Equal(t, e.To, b.Edges()[i].To)
		assert.Equal(t, e.Traversals, b.Edges()[i].Traversals)
	}
}

// TestBuild_OptionViolations pins option errors.
func TestBuild_OptionViolations(t *testing.T) {
	_, err := lattice.Build(nil, lattice.WithMode(token.Mode(42)))
	assert.ErrorIs(t, err, lattice.ErrOptionViolation)
}

// TestBuild_CanceledContext verifies cancellation aborts the pass.
func TestBuild_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lattice.Build(
		[]lattice.PromptGroup{lattice.Group("p", "the cat sat")},
		lattice.WithContext(ctx),
	)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestBuild_SentenceMode verifies sentence-level lattices merge repeated
// sentences across generations.
func TestBuild_SentenceMode(t *testing.T) {
	lat, err := lattice.Build(
		[]lattice.PromptGroup{lattice.Group("p",
			"It glows. Travelers follow.",
			"It glows. Travelers flee.",
		)},
		lattice.WithMode(token.Sentence), lattice.WithoutCompaction(),
	)
	require.NoError(t, err)

	glows, ok := lat.Node("It glows")
	require.True(t, ok)
	assert.Equal(t, 2, glows.Count, "identical sentences must share a node")
	assert.Len(t, lat.Nodes(), 3)
}
