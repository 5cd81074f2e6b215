// Package token splits one model generation into an ordered run of
// position-tagged tokens and enriches each with its embedding and the
// nearest non-stopword neighbor on either side.
//
// Splitting modes:
//
//   - Word     — whitespace-delimited words (the default).
//   - Comma    — comma-delimited spans, trimmed.
//   - Sentence — spans delimited by '.', '!' or '?', trimmed.
//
// Empty chunks are skipped in every mode, so positions are dense.
//
// Context neighbors: for the token at position i, the nearest earlier token
// that is not a stopword (scanning back from i-1) and the nearest later one
// (scanning forward from i+1). A token at the edge of its generation, or
// one surrounded only by stopwords, has the respective neighbor empty.
// Stopword membership is checked case-insensitively on the
// punctuation-stripped form.
//
// Embeddings: the token text and each non-empty neighbor are embedded
// through the supplied embed.Provider. A provider failure leaves that one
// vector nil — tokenization itself never fails over an embedding, only
// over bad arguments or a canceled context.
//
// Errors:
//
//	ErrNilProvider  - no embedding provider supplied.
//	ErrUnknownMode  - split mode outside the declared enum.
package token
