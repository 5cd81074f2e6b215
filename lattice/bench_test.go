package lattice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/EmilyReif/llm-consistency-vis-sub000/lattice"
)

// benchGroups synthesizes gens generations of length words with a shared
// vocabulary, so merges actually happen and the candidate scan grows the
// way real comparison sessions do.
func benchGroups(gens, words int) []lattice.PromptGroup {
	vocab := []string{
		"the", "lumivine", "is", "a", "bioluminescent", "vine", "creature",
		"that", "guards", "ancient", "forest", "travelers", "cursed",
		"glowing", "spirits", "lost",
	}
	out := make([]string, gens)
	for g := 0; g < gens; g++ {
		parts := make([]string, words)
		for w := 0; w < words; w++ {
			// Drift the vocabulary window per generation for partial overlap.
			parts[w] = vocab[(w+g)%len(vocab)] + suffixFor(g, w)
		}
		out[g] = strings.Join(parts, " ")
	}

	return []lattice.PromptGroup{lattice.Group("bench", out...)}
}

// suffixFor makes every third token generation-specific, mixing fresh
// nodes among merges.
func suffixFor(g, w int) string {
	if w%3 == 0 {
		return fmt.Sprintf("%d", g%4)
	}
	return ""
}

func benchmarkBuild(b *testing.B, gens, words int) {
	groups := benchGroups(gens, words)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := lattice.Build(groups); err != nil {
			b.Fatalf("Build failed: %v", err)
		}
	}
}

// BenchmarkBuild_Small benchmarks 10 generations of 10 tokens.
func BenchmarkBuild_Small(b *testing.B) { benchmarkBuild(b, 10, 10) }

// BenchmarkBuild_Medium benchmarks 30 generations of 20 tokens, the upper
// end of an interactive comparison session.
func BenchmarkBuild_Medium(b *testing.B) { benchmarkBuild(b, 30, 20) }

// BenchmarkBuild_WithoutCompaction isolates the build pass from the
// compactor.
func BenchmarkBuild_WithoutCompaction(b *testing.B) {
	groups := benchGroups(30, 20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := lattice.Build(groups, lattice.WithoutCompaction()); err != nil {
			b.Fatalf("Build failed: %v", err)
		}
	}
}
