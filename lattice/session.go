// Session: the single-flight build surface for event-driven callers.
// Every UI-triggered rebuild goes through one Session; a rebuild that is
// overtaken by a newer request has its output dropped wholesale, never
// partially merged.

package lattice

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/EmilyReif/llm-consistency-vis-sub000/embed"
	"github.com/EmilyReif/llm-consistency-vis-sub000/token"
)

// warmConcurrency bounds parallel provider lookups during Warm.
const warmConcurrency = 8

// Session owns one embedding provider and serializes lattice rebuilds
// against it. Construct once per comparison session; independent sessions
// do not share caches, so builds stay isolated.
type Session struct {
	provider embed.Provider
	logger   *zap.Logger

	mu     sync.Mutex
	seq    uint64
	latest *Lattice
}

// NewSession creates a Session. WithProvider and WithLogger are honored;
// per-build options (threshold, mode, guards) are passed to Rebuild
// instead. With no provider option the session owns a memoized
// bag-of-words provider, which Warm can preheat.
func NewSession(opts ...Option) (*Session, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	return &Session{provider: o.Provider, logger: o.Logger}, nil
}

// Rebuild runs one build over groups. If another Rebuild starts before
// this one finishes, this one's result is discarded and ErrBuildSuperseded
// returned; the session's latest lattice is only ever replaced by the most
// recently requested build.
func (s *Session) Rebuild(ctx context.Context, groups []PromptGroup, opts ...Option) (*Lattice, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	buildID := uuid.NewString()
	s.logger.Debug("rebuild requested",
		zap.String("build_id", buildID), zap.Uint64("seq", seq))

	merged := make([]Option, 0, len(opts)+3)
	merged = append(merged, WithProvider(s.provider), WithLogger(s.logger))
	merged = append(merged, opts...)
	merged = append(merged, WithContext(ctx))

	lat, err := Build(groups, merged...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.logger.Debug("rebuild superseded",
			zap.String("build_id", buildID), zap.Uint64("seq", seq), zap.Uint64("latest", s.seq))
		return nil, ErrBuildSuperseded
	}
	if err != nil {
		return nil, err
	}
	s.latest = lat

	return lat, nil
}

// Latest returns the most recently completed, non-superseded lattice, or
// nil before the first successful Rebuild.
func (s *Session) Latest() *Lattice {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latest
}

// Warm embeds every distinct span the groups would tokenize to, with
// bounded concurrency, so a following Rebuild runs against a hot cache.
// Warmth only helps when the session provider memoizes; results are
// identical either way. Individual provider failures are ignored, exactly
// as the build itself degrades them; only context cancellation aborts.
func (s *Session) Warm(ctx context.Context, groups []PromptGroup, mode token.Mode) error {
	spans := make(map[string]string) // normalized key → first surface seen
	for _, group := range groups {
		for _, text := range group.Generations {
			chunks, err := token.Split(text, mode)
			if err != nil {
				return err
			}
			for _, chunk := range chunks {
				key := embed.Normalize(chunk)
				if _, ok := spans[key]; !ok {
					spans[key] = chunk
				}
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, span := range spans {
		span := span
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Provider failures are non-fatal here, as in the build.
			_, _ = s.provider.Embed(gctx, span)
			return nil
		})
	}

	return g.Wait()
}
