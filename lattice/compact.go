// Chain compaction: the post-pass that fuses unbranched runs — a node with
// exactly one outgoing edge target whose target has exactly one incoming
// source — into composite nodes, until no such pair remains.

package lattice

// Compact rewrites l in place to its chain-compacted fixed point.
//
// Each fusion removes the two source nodes, inserts one composite keyed by
// their space-joined labels, splices matching occurrences (a target
// occurrence in the same generation starting where the source occurrence
// ends), and repoints every surviving edge at either old key. A source
// occurrence with no matching target occurrence is kept unfused rather
// than dropped, and so is an unmatched target occurrence.
//
// The iteration is bounded: every fusion removes one node, so at most
// len(nodes)-1 rounds run.
func Compact(l *Lattice) {
	for {
		src, dst, ok := l.fusionPair()
		if !ok {
			return
		}
		l.fuse(src, dst)
	}
}

// fusionPair scans nodes in first-seen order for a fusable pair: src has
// exactly one outgoing target dst (not itself), and dst has exactly one
// incoming source (necessarily src).
func (l *Lattice) fusionPair() (string, string, bool) {
	for _, srcKey := range l.order {
		targets := l.edges[srcKey]
		if len(targets) != 1 {
			continue
		}
		var dstKey string
		for key := range targets {
			dstKey = key
		}
		if dstKey == srcKey {
			continue
		}
		if l.incomingSources(dstKey) != 1 {
			continue
		}

		return srcKey, dstKey, true
	}

	return "", "", false
}

// incomingSources counts distinct sources with an edge group into key.
func (l *Lattice) incomingSources(key string) int {
	n := 0
	for _, targets := range l.edges {
		if _, ok := targets[key]; ok {
			n++
		}
	}

	return n
}

// fuse replaces src and dst with one composite node and rewires the edges.
func (l *Lattice) fuse(srcKey, dstKey string) {
	src := l.nodes[srcKey]
	dst := l.nodes[dstKey]

	// The interior src→dst edge disappears; its traversals are now inside
	// the composite.
	delete(l.edges[srcKey], dstKey)
	if len(l.edges[srcKey]) == 0 {
		delete(l.edges, srcKey)
	}

	occs := spliceOccurrences(src.Occurrences, dst.Occurrences)

	delete(l.nodes, srcKey)
	delete(l.nodes, dstKey)

	label := src.Label + " " + dst.Label
	merged := &Node{
		Key:         l.freshKey(label),
		Label:       label,
		Count:       len(occs),
		Occurrences: occs,
		generations: make(map[int]struct{}, len(occs)),
		Root:        src.Root || dst.Root,
		End:         src.End || dst.End,
		Prompts:     src.Prompts,
	}
	for _, o := range occs {
		merged.generations[o.Generation] = struct{}{}
	}
	for _, p := range dst.Prompts {
		appendUnique(&merged.Prompts, p)
	}
	l.nodes[merged.Key] = merged

	// Composite takes src's slot in first-seen order; dst's slot goes away.
	order := l.order[:0]
	for _, key := range l.order {
		switch key {
		case srcKey:
			order = append(order, merged.Key)
		case dstKey:
		default:
			order = append(order, key)
		}
	}
	l.order = order

	l.repointEdges(srcKey, dstKey, merged.Key)
}

// spliceOccurrences pairs each source occurrence with the target
// occurrence of the same generation starting at the source's end position
// and joins their segment runs. Unmatched occurrences on either side are
// kept as they are.
func spliceOccurrences(srcOccs, dstOccs []Occurrence) []Occurrence {
	occs := make([]Occurrence, 0, len(srcOccs))
	used := make([]bool, len(dstOccs))
	for _, so := range srcOccs {
		spliced := so
		for j, do := range dstOccs {
			if used[j] || do.Generation != so.Generation || do.Position != so.end() {
				continue
			}
			texts := make([]string, 0, len(so.Texts)+len(do.Texts))
			texts = append(append(texts, so.Texts...), do.Texts...)
			spliced = Occurrence{Generation: so.Generation, Position: so.Position, Texts: texts}
			used[j] = true
			break
		}
		occs = append(occs, spliced)
	}
	for j, do := range dstOccs {
		if !used[j] {
			occs = append(occs, do)
		}
	}

	return occs
}

// repointEdges rebuilds the edge maps with every endpoint at srcKey or
// dstKey redirected to newKey, merging traversal groups that land on the
// same pair.
func (l *Lattice) repointEdges(srcKey, dstKey, newKey string) {
	var all []*Edge
	for _, targets := range l.edges {
		for _, e := range targets {
			all = append(all, e)
		}
	}

	l.edges = make(map[string]map[string]*Edge, len(l.edges))
	for _, e := range all {
		if e.From == srcKey || e.From == dstKey {
			e.From = newKey
		}
		if e.To == srcKey || e.To == dstKey {
			e.To = newKey
		}
		targets, ok := l.edges[e.From]
		if !ok {
			targets = make(map[string]*Edge)
			l.edges[e.From] = targets
		}
		if have, ok := targets[e.To]; ok {
			have.Traversals = append(have.Traversals, e.Traversals...)
			continue
		}
		targets[e.To] = e
	}
}
