// Package lattice merges tokenized generations into a single word lattice:
// a directed graph whose nodes are clusters of interchangeable token
// occurrences and whose edges are per-generation traversals.
//
// The build is a deliberate greedy single pass, not an optimal multiple
// sequence alignment. Generations are consumed strictly in the order
// supplied (grouped by prompt, then by generation), tokens strictly left
// to right. Each token either merges into the best-scoring existing node
// above the similarity threshold or opens a fresh node, subject to three
// conflict rules:
//
//  1. A node never absorbs two tokens of the same generation — that would
//     collapse two distinct positions of one output into one node.
//  2. A token never merges into the node its own predecessor resolved to —
//     that would degenerate into a self-loop.
//  3. A merge that would let the predecessor reach back into the merge
//     target is rejected (cycle guard); consumers assume a DAG per
//     generation path.
//
// On top of the builder the package provides:
//
//   - Compact: a fixed-point post-pass fusing every single-out node into
//     its single-in target, splicing occurrences into composite nodes.
//   - GenerationPath: replays one generation's exact token run out of the
//     lattice, the round-trip property as an API.
//   - Session: a single-flight wrapper that serializes rebuilds, drops
//     superseded results wholesale, and can prewarm the embedding cache.
//
// Scoring: direct cosine similarity of token embeddings, or the sum of the
// two context-neighbor cosines when both sides are flanked stopwords,
// minus a positional penalty |posA−posB|/20. Scores are never clamped; the
// threshold is a strict lower-bound gate.
//
// Complexity: the candidate scan is linear in nodes created so far, so a
// build is O(tokens × nodes) — fine for tens of generations of tens of
// tokens each.
//
// Errors:
//
//	ErrOptionViolation    - invalid functional option.
//	ErrGenerationNotFound - GenerationPath over an absent generation.
//	ErrBrokenPath         - lattice does not replay the generation exactly.
//	ErrBuildSuperseded    - a newer Session rebuild started before this one
//	                        finished; its result was dropped wholesale.
package lattice
