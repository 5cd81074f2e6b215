package token

import "strings"

// Mode selects how a generation string is cut into tokens.
//
//   - Word     — strings.Fields semantics: any run of whitespace separates.
//   - Comma    — split on ',' and trim surrounding whitespace.
//   - Sentence — split on '.', '!' and '?' and trim surrounding whitespace.
//
// All modes drop empty chunks so token positions stay dense.
type Mode int

const (
	// Word splits on whitespace (default).
	Word Mode = iota

	// Comma splits on commas, trimming each span.
	Comma

	// Sentence splits on terminal punctuation ('.', '!', '?'), trimming each span.
	Sentence
)

// String returns the mode name for logs and errors.
func (m Mode) String() string {
	switch m {
	case Word:
		return "word"
	case Comma:
		return "comma"
	case Sentence:
		return "sentence"
	default:
		return "unknown"
	}
}

// Split cuts text according to mode, dropping empty chunks. It is the
// exact segmentation Tokenize applies before embedding, exposed so callers
// can enumerate spans (e.g. to prewarm an embedding cache).
// Returns ErrUnknownMode for a mode outside the enum.
func Split(text string, mode Mode) ([]string, error) {
	var raw []string
	switch mode {
	case Word:
		raw = strings.Fields(text)
	case Comma:
		raw = strings.Split(text, ",")
	case Sentence:
		raw = strings.FieldsFunc(text, func(r rune) bool {
			return r == '.' || r == '!' || r == '?'
		})
	default:
		return nil, ErrUnknownMode
	}

	out := raw[:0:len(raw)]
	for _, chunk := range raw {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		out = append(out, chunk)
	}

	return out, nil
}
