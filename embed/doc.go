// Package embed defines the embedding Provider boundary consumed by the
// tokenizer and the lattice builder, plus two concrete building blocks:
//
//   - BagOfWords: a deterministic, dependency-free local provider that maps
//     text spans to fixed-length term-count vectors over a growing
//     vocabulary, L2-normalized. Identical spans always embed identically,
//     distinct single words stay orthogonal until the vocabulary wraps, so
//     exact-string matches score a cosine of 1 and unrelated words score 0.
//     Useful on its own and the default provider for tests and examples.
//
//   - Memoized: a decorator that caches any Provider behind a bounded LRU
//     (500 entries by default), keyed on Normalize(text) — lowercased with
//     punctuation and whitespace stripped — so trivial surface variants
//     ("Hello!" vs "hello") share one cache slot.
//
// Guarantees:
//
//   - Thread-safe: BagOfWords guards its vocabulary with an RWMutex and the
//     LRU cache is safe for concurrent use, so a warm pass may embed in
//     parallel with a build.
//   - Non-fatal: providers report failures as errors; callers are expected
//     to degrade (absent embedding → zero similarity), never to abort.
//
// Errors:
//
//	ErrNilProvider - decorator constructed over a nil Provider.
//	ErrBadCacheSize - non-positive LRU capacity requested.
package embed
