// This file declares the persistent lattice model: Occurrence, Node, Edge,
// Traversal, the Lattice container, and the PromptGroup input shape.
//
// Nodes live in an arena keyed by a unique string key; edges reference
// nodes by key, never by pointer, so fusing nodes during compaction cannot
// leave aliased stale references behind.

package lattice

import (
	"errors"
	"sort"
	"strconv"
)

// Sentinel errors for lattice operations.
var (
	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("lattice: invalid option supplied")

	// ErrGenerationNotFound is returned by GenerationPath when no node
	// carries an occurrence of the requested generation.
	ErrGenerationNotFound = errors.New("lattice: generation not found")

	// ErrBrokenPath is returned by GenerationPath when the edge walk does
	// not reproduce the generation's full token run.
	ErrBrokenPath = errors.New("lattice: generation path broken")

	// ErrBuildSuperseded is returned by Session.Rebuild when a newer
	// rebuild started before this one finished.
	ErrBuildSuperseded = errors.New("lattice: build superseded")
)

// PromptGroup is one prompt with its ordered generations, the input unit
// of Build. Generations are processed in slice order.
type PromptGroup struct {
	// PromptID identifies the prompt for provenance. An empty id is
	// replaced by a generated one at build time.
	PromptID string

	// Generations are the sampled outputs for this prompt, in order.
	Generations []string
}

// Group is a convenience constructor for a PromptGroup.
func Group(promptID string, generations ...string) PromptGroup {
	return PromptGroup{PromptID: promptID, Generations: generations}
}

// Occurrence is one concrete appearance of a node's content: a run of one
// or more surface segments starting at Position within Generation. Before
// compaction every occurrence covers exactly one segment; compaction
// splices adjacent runs together.
type Occurrence struct {
	// Generation is the global generation index of this appearance.
	Generation int

	// Position is the token position of the first covered segment.
	Position int

	// Texts are the surface segments covered, in position order.
	Texts []string
}

// end returns the first position past the covered run.
func (o Occurrence) end() int { return o.Position + len(o.Texts) }

// Node is a merged cluster of equivalent token occurrences. Nodes are
// created on first occurrence, mutated in place as later occurrences merge
// in, and destroyed only when compaction fuses them into a composite.
type Node struct {
	// Key uniquely identifies the node within its lattice. It equals
	// Label unless a same-generation surface repeat forced a
	// discriminator suffix.
	Key string

	// Label is the display text: the surface text, or the space-joined
	// concatenation of surfaces after compaction.
	Label string

	// Count is the number of merged occurrences.
	Count int

	// Occurrences lists every appearance, in merge order.
	Occurrences []Occurrence

	// generations is the derived set of generation indices touched. It is
	// maintained alongside Occurrences and never edited independently.
	generations map[int]struct{}

	// Root marks a node that opens at least one generation.
	Root bool

	// End marks a node that closes at least one generation.
	End bool

	// Prompts lists the contributing prompt ids, first-seen order.
	Prompts []string
}

// SawGeneration reports whether the node already absorbed a token of
// generation g. The builder uses this as the same-generation conflict rule.
func (n *Node) SawGeneration(g int) bool {
	_, ok := n.generations[g]
	return ok
}

// Generations returns the sorted generation indices this node touches.
func (n *Node) Generations() []int {
	out := make([]int, 0, len(n.generations))
	for g := range n.generations {
		out = append(out, g)
	}
	sort.Ints(out)

	return out
}

// occurrenceIn returns the node's occurrence for generation g. The builder
// guarantees at most one per generation.
func (n *Node) occurrenceIn(g int) (Occurrence, bool) {
	for _, o := range n.Occurrences {
		if o.Generation == g {
			return o, true
		}
	}

	return Occurrence{}, false
}

// Traversal records one generation crossing a specific edge.
type Traversal struct {
	// Generation is the global generation index of the crossing.
	Generation int

	// Prompt is the owning prompt id.
	Prompt string
}

// Edge groups every traversal of one source→target pair. Traversals are
// appended, never deduplicated, so consumers can render per-generation
// paths and weight by provenance.
type Edge struct {
	// From is the source node key.
	From string

	// To is the target node key.
	To string

	// Traversals lists each crossing in build order.
	Traversals []Traversal
}

// Lattice is the merged graph: a node arena keyed by node key plus edges
// grouped per source→target pair.
type Lattice struct {
	nodes map[string]*Node
	order []string // node keys, first-seen order
	edges map[string]map[string]*Edge
}

func newLattice() *Lattice {
	return &Lattice{
		nodes: make(map[string]*Node),
		edges: make(map[string]map[string]*Edge),
	}
}

// Node returns the node stored under key.
func (l *Lattice) Node(key string) (*Node, bool) {
	n, ok := l.nodes[key]
	return n, ok
}

// Nodes returns the node list in first-seen order.
func (l *Lattice) Nodes() []*Node {
	out := make([]*Node, 0, len(l.order))
	for _, key := range l.order {
		out = append(out, l.nodes[key])
	}

	return out
}

// Edges returns the edge list ordered by source first-seen order, then
// target first-seen order, so identical inputs list identically.
func (l *Lattice) Edges() []*Edge {
	rank := make(map[string]int, len(l.order))
	for i, key := range l.order {
		rank[key] = i
	}

	out := make([]*Edge, 0)
	for _, targets := range l.edges {
		for _, e := range targets {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return rank[out[i].From] < rank[out[j].From]
		}
		return rank[out[i].To] < rank[out[j].To]
	})

	return out
}

// EdgeBetween returns the traversal group for from→to.
func (l *Lattice) EdgeBetween(from, to string) (*Edge, bool) {
	e, ok := l.edges[from][to]
	return e, ok
}

// ensureNode returns the node under key, creating it when absent.
func (l *Lattice) ensureNode(key, label string) *Node {
	if n, ok := l.nodes[key]; ok {
		return n
	}
	n := &Node{
		Key:         key,
		Label:       label,
		generations: make(map[int]struct{}),
	}
	l.nodes[key] = n
	l.order = append(l.order, key)

	return n
}

// freshKey uniquifies label against the arena: a repeated surface within
// one generation may not share a node, so the second fresh node for the
// same surface gets a "#n" discriminator.
func (l *Lattice) freshKey(label string) string {
	if _, taken := l.nodes[label]; !taken {
		return label
	}
	for n := 2; ; n++ {
		key := label + "#" + strconv.Itoa(n)
		if _, taken := l.nodes[key]; !taken {
			return key
		}
	}
}

// addTraversal appends one generation crossing to the from→to group,
// creating the group on first crossing.
func (l *Lattice) addTraversal(from, to string, t Traversal) {
	targets, ok := l.edges[from]
	if !ok {
		targets = make(map[string]*Edge)
		l.edges[from] = targets
	}
	e, ok := targets[to]
	if !ok {
		e = &Edge{From: from, To: to}
		targets[to] = e
	}
	e.Traversals = append(e.Traversals, t)
}
