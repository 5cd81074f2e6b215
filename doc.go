// Package consistency merges many sampled text outputs of a language model
// into a single word lattice — a directed graph in which tokens that are
// interchangeable across samples collapse onto a shared node, while tokens
// that diverge stay on separate branches.
//
// 🚀 What does it do?
//
//	Feed it N generations for the same prompt and it returns one graph:
//		• Tokenization: whitespace, comma or sentence splitting with
//		  non-stopword context neighbors per token
//		• Embeddings: pluggable provider with a deterministic local
//		  bag-of-words fallback and a bounded LRU memo
//		• Incremental clustering: greedy single-pass merge with a
//		  similarity threshold, positional penalty and cycle guard
//		• Chain compaction: unbranched runs fuse into composite nodes
//		• Provenance: every node and edge remembers which generation
//		  and which prompt produced it
//
// ✨ Why this shape?
//
//   - Deterministic – identical inputs always build the identical lattice
//   - Recoverable – embedding failures degrade a score, never a build
//   - Inspectable – per-generation paths replay each original token run
//   - Pure library – no I/O, no rendering, callers own the outer layers
//
// Everything is organized under three subpackages:
//
//	embed/   — embedding Provider, bag-of-words fallback, LRU memoization
//	token/   — split modes, stopwords, context-neighbor tokenization
//	lattice/ — node/edge model, builder, reachability closure, compactor,
//	           generation-path walks and the single-flight build session
//
// Quick ASCII example, two generations "the cat sat" / "the dog sat":
//
//	        ┌──cat──┐
//	  the───┤       ├──sat
//	        └──dog──┘
//
//	"the" and "sat" are shared nodes, "cat"/"dog" stay distinct branches,
//	and every edge is tagged with the generation that traversed it.
//
//	go get github.com/EmilyReif/llm-consistency-vis-sub000
package consistency
