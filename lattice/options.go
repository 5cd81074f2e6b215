// Package-level options for Build and Session, in the functional-options
// style: deterministic defaults, With* mutators that record violations,
// and a single ErrOptionViolation surfaced at call time.

package lattice

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/EmilyReif/llm-consistency-vis-sub000/embed"
	"github.com/EmilyReif/llm-consistency-vis-sub000/token"
)

// DefaultThreshold is the similarity gate used when no WithThreshold
// option overrides it. A candidate merges only when its score strictly
// exceeds the threshold.
const DefaultThreshold = 0.5

// positionPenaltyDivisor scales the positional penalty:
// |posA − posB| / positionPenaltyDivisor is subtracted from every score.
const positionPenaltyDivisor = 20.0

// Option configures Build or Session behavior via functional arguments.
// An invalid Option is recorded internally and surfaced as
// ErrOptionViolation when Build is invoked.
type Option func(*Options)

// Options holds every knob of a lattice build.
type Options struct {
	// Ctx allows cancellation and deadlines; checked between tokens.
	Ctx context.Context

	// Threshold is the strict lower-bound similarity gate. It is not
	// clamped: values above the scoring ceiling simply disable merging,
	// negative values merge aggressively.
	Threshold float64

	// Mode selects how generations are tokenized.
	Mode token.Mode

	// Provider supplies embeddings. Nil resolves to a memoized
	// bag-of-words provider at build time.
	Provider embed.Provider

	// Logger receives per-merge debug and per-build info events.
	Logger *zap.Logger

	// CycleGuard rejects merges that would close a directed cycle.
	CycleGuard bool

	// Compaction runs the chain compactor after the build pass.
	Compaction bool

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with deterministic defaults:
//   - context.Background()
//   - Threshold = DefaultThreshold
//   - Mode = token.Word
//   - nil Provider (memoized bag-of-words resolved at build time)
//   - no-op logger
//   - cycle guard on, compaction on.
func DefaultOptions() Options {
	return Options{
		Ctx:        context.Background(),
		Threshold:  DefaultThreshold,
		Mode:       token.Word,
		Provider:   nil,
		Logger:     zap.NewNop(),
		CycleGuard: true,
		Compaction: true,
		err:        nil,
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithThreshold sets the similarity gate. Any float is accepted; the
// threshold is a raw strict lower bound, not a probability.
func WithThreshold(threshold float64) Option {
	return func(o *Options) { o.Threshold = threshold }
}

// WithMode selects the tokenize mode.
//
//	token.Word, token.Comma, token.Sentence: accepted
//	anything else: invalid option → ErrOptionViolation
func WithMode(mode token.Mode) Option {
	return func(o *Options) {
		switch mode {
		case token.Word, token.Comma, token.Sentence:
			o.Mode = mode
		default:
			o.err = fmt.Errorf("%w: unknown tokenize mode (%d)", ErrOptionViolation, mode)
		}
	}
}

// WithProvider sets the embedding provider. A nil provider keeps the
// default.
func WithProvider(p embed.Provider) Option {
	return func(o *Options) {
		if p != nil {
			o.Provider = p
		}
	}
}

// WithLogger attaches a logger. A nil logger keeps the default no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithoutCycleGuard disables the defensive cycle check during merging.
// Downstream consumers assume a DAG per generation path; disable only for
// parity experiments against builders that never enforced it.
func WithoutCycleGuard() Option {
	return func(o *Options) { o.CycleGuard = false }
}

// WithoutCompaction skips the chain-compaction post-pass, exposing the raw
// node/edge maps exactly as the builder produced them.
func WithoutCompaction() Option {
	return func(o *Options) { o.Compaction = false }
}

// resolve materializes Options from defaults plus opts, filling in the
// default provider. Surfaces any recorded option violation.
func resolve(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return o, o.err
	}
	if o.Provider == nil {
		memo, err := embed.NewMemoized(embed.NewBagOfWords())
		if err != nil {
			return o, err
		}
		o.Provider = memo
	}

	return o, nil
}
