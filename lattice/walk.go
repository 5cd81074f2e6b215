// Per-generation path reconstruction: replaying one generation's exact
// token run out of the merged lattice.

package lattice

import "fmt"

// GenerationPath reconstructs the ordered token run of one generation by
// walking edges tagged with it, starting from the node holding the
// generation's position-0 occurrence.
//
// For a well-formed lattice the result equals the generation's original
// token sequence (the round-trip property). ErrGenerationNotFound is
// returned when no node carries the generation; ErrBrokenPath when the
// walk cannot account for every position the lattice stores for it.
func (l *Lattice) GenerationPath(generation int) ([]string, error) {
	start, total := l.generationExtent(generation)
	if total == 0 {
		return nil, fmt.Errorf("%w: generation %d", ErrGenerationNotFound, generation)
	}
	if start == "" {
		return nil, fmt.Errorf("%w: generation %d has no position-0 node", ErrBrokenPath, generation)
	}

	var run []string
	current := start
	for {
		occ, ok := l.nodes[current].occurrenceIn(generation)
		if !ok {
			return nil, fmt.Errorf("%w: node %q lost generation %d", ErrBrokenPath, current, generation)
		}
		run = append(run, occ.Texts...)

		next := l.nextOn(current, generation, occ.end())
		if next == "" {
			break
		}
		current = next
	}

	if len(run) != total {
		return nil, fmt.Errorf("%w: generation %d walked %d of %d positions",
			ErrBrokenPath, generation, len(run), total)
	}

	return run, nil
}

// generationExtent finds the node opening the generation (position-0
// occurrence) and the total number of positions the lattice stores for it.
func (l *Lattice) generationExtent(generation int) (start string, total int) {
	for _, key := range l.order {
		occ, ok := l.nodes[key].occurrenceIn(generation)
		if !ok {
			continue
		}
		total += len(occ.Texts)
		if occ.Position == 0 {
			start = key
		}
	}

	return start, total
}

// nextOn follows the edge tagged with generation whose target holds the
// generation's occurrence at the expected position, or "" at the end of
// the run.
func (l *Lattice) nextOn(current string, generation, expected int) string {
	for to, e := range l.edges[current] {
		tagged := false
		for _, t := range e.Traversals {
			if t.Generation == generation {
				tagged = true
				break
			}
		}
		if !tagged {
			continue
		}
		if occ, ok := l.nodes[to].occurrenceIn(generation); ok && occ.Position == expected {
			return to
		}
	}

	return ""
}
