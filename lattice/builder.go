// The incremental lattice build pass: one stateful sweep over every token
// of every generation, merging each token into the best-scoring compatible
// node or opening a fresh one, and recording the per-generation edge trail.

package lattice

import (
	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/EmilyReif/llm-consistency-vis-sub000/token"
)

// Build merges the supplied prompt groups into a word lattice.
//
// Generations are processed strictly in the order supplied, grouped by
// prompt; generation indices are global across groups, so no two
// generations ever share an index. Within a generation tokens are
// processed left to right. Any reordering would change which nodes absorb
// which tokens.
//
// An empty groups slice yields an empty lattice. An empty generation
// contributes no tokens and no edges. A single-token generation yields one
// root-and-end node with no edges. No embedding failure is fatal: the
// worst outcome is a more fragmented lattice.
//
// Complexity: O(tokens × nodes) similarity scans plus O(nodes) closure
// propagation per edge.
func Build(groups []PromptGroup, opts ...Option) (*Lattice, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	b := &builder{
		opts:    o,
		lat:     newLattice(),
		reach:   newReachability(),
		anchors: make(map[string]anchor),
	}

	generation := 0
	for _, group := range groups {
		promptID := group.PromptID
		if promptID == "" {
			promptID = uuid.NewString()
		}
		for _, text := range group.Generations {
			if err = b.addGeneration(text, generation, promptID); err != nil {
				return nil, err
			}
			generation++
		}
	}

	if o.Compaction {
		Compact(b.lat)
	}
	o.Logger.Info("lattice built",
		zap.Int("generations", generation),
		zap.Int("nodes", len(b.lat.nodes)),
		zap.Int("edge_groups", edgeGroupCount(b.lat)),
		zap.Float64("threshold", o.Threshold),
		zap.String("mode", o.Mode.String()),
	)

	return b.lat, nil
}

// builder holds the pass state: the growing lattice, the reachability
// closure, and the per-node comparison anchors (the token that first keyed
// each node).
type builder struct {
	opts    Options
	lat     *Lattice
	reach   *reachability
	anchors map[string]anchor
}

// addGeneration tokenizes one generation and threads it through the
// lattice, absorbing or creating a node per token and recording the edge
// from the previous token's node.
func (b *builder) addGeneration(text string, generation int, promptID string) error {
	toks, err := token.Tokenize(b.opts.Ctx, b.opts.Provider, text, generation, b.opts.Mode)
	if err != nil {
		return err
	}

	prevKey := ""
	for i, tok := range toks {
		key := b.place(tok, prevKey)

		node := b.lat.ensureNode(key, tok.Text)
		if _, seen := b.anchors[key]; !seen {
			b.anchors[key] = anchorOf(tok)
			b.reach.initNode(key)
		}
		node.Count++
		node.Occurrences = append(node.Occurrences, Occurrence{
			Generation: generation,
			Position:   tok.Position,
			Texts:      []string{tok.Text},
		})
		node.generations[generation] = struct{}{}
		if tok.Position == 0 {
			node.Root = true
		}
		if i == len(toks)-1 {
			node.End = true
		}
		appendUnique(&node.Prompts, promptID)

		if i > 0 {
			b.lat.addTraversal(prevKey, key, Traversal{Generation: generation, Prompt: promptID})
			b.reach.addEdge(prevKey, key)
		}
		prevKey = key
	}

	return nil
}

// place resolves the node key a token lands on: the best-scoring reuse
// candidate above the threshold, or a fresh key.
//
// Candidate filters, in order: nodes that already absorbed a token of this
// generation are out; scores must strictly exceed the threshold; ties
// break to the first-seen node. The winner is then dropped again if it is
// the previous token's own node (degenerate self-loop) or, with the cycle
// guard on, if the previous node is reachable from it (the new edge would
// close a cycle).
func (b *builder) place(tok token.Token, prevKey string) string {
	ref := anchorOf(tok)

	best := ""
	bestScore := b.opts.Threshold
	for _, key := range b.lat.order {
		if b.lat.nodes[key].SawGeneration(tok.Generation) {
			continue
		}
		if score := similarity(ref, b.anchors[key]); score > bestScore {
			best, bestScore = key, score
		}
	}

	switch {
	case best == "":
		// No candidate cleared the gate; not an error, just a new node.
	case best == prevKey:
		b.opts.Logger.Debug("merge rejected: previous node",
			zap.String("token", tok.Text), zap.String("into", best))
		best = ""
	case b.opts.CycleGuard && prevKey != "" && b.reach.wouldCreateCycle(best, prevKey):
		b.opts.Logger.Debug("merge rejected: would close cycle",
			zap.String("token", tok.Text), zap.String("into", best))
		best = ""
	default:
		b.opts.Logger.Debug("token merged",
			zap.String("token", tok.Text), zap.String("into", best),
			zap.Float64("score", bestScore))
	}
	if best != "" {
		return best
	}

	return b.lat.freshKey(tok.Text)
}

// appendUnique appends s to list when absent, preserving first-seen order.
func appendUnique(list *[]string, s string) {
	for _, have := range *list {
		if have == s {
			return
		}
	}
	*list = append(*list, s)
}

// edgeGroupCount counts source→target pairs.
func edgeGroupCount(l *Lattice) int {
	n := 0
	for _, targets := range l.edges {
		n += len(targets)
	}

	return n
}
