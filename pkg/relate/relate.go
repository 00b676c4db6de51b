// Package relate detects spatial relationships between placed markers.
//
// Two independent connected-components analyses run over the same marker
// set:
//
//   - Fusions: components of the overlap graph, restricted to pairs with
//     different tags. Two markers overlap when their scaled distance is
//     less than the sum of their half-sizes.
//   - Chains: components of the proximity graph, restricted to pairs with
//     identical tags, computed only over markers not already claimed by a
//     fusion and not manually excluded (broken links).
//
// Fusion membership takes priority: a marker absorbed into a fusion never
// simultaneously appears in a chain. Components are recomputed fresh on
// every geometry-relevant change and are never stored as marker state.
//
// Detect is a pure function of its inputs and is safe to call repeatedly;
// unchanged inputs yield identical component membership.
package relate

import (
	"github.com/mlehnert/stickerforge/pkg/geo"
	"github.com/mlehnert/stickerforge/pkg/sticker"
)

// ChainReach is the tuned multiplier defining how far apart two
// identically-tagged markers may sit and still link into a chain:
// distance < (sizeA+sizeB)/2 * ChainReach.
const ChainReach = 3

// Component is an ordered list of member marker IDs, always of size >= 2.
// Discovery order follows marker iteration order; no canonical ordering is
// imposed beyond that.
type Component []string

// Contains reports whether the component includes the given marker ID.
func (c Component) Contains(id string) bool {
	for _, m := range c {
		if m == id {
			return true
		}
	}
	return false
}

// Result holds the outcome of one relationship detection pass.
type Result struct {
	Fusions []Component
	Chains  []Component
}

// Claimed returns the set of marker IDs that belong to any fusion or chain.
func (r Result) Claimed() map[string]bool {
	claimed := make(map[string]bool)
	for _, f := range r.Fusions {
		for _, id := range f {
			claimed[id] = true
		}
	}
	for _, ch := range r.Chains {
		for _, id := range ch {
			claimed[id] = true
		}
	}
	return claimed
}

// Empty reports whether no relationships were found.
func (r Result) Empty() bool {
	return len(r.Fusions) == 0 && len(r.Chains) == 0
}

// Overlaps reports whether two markers overlap: their scaled distance is
// less than the sum of their half-sizes, their tags differ, and their
// identities differ. The predicate is symmetric and irreflexive.
func Overlaps(a, b sticker.Marker, c geo.Container) bool {
	if a.ID == b.ID || a.Tag == b.Tag {
		return false
	}
	return geo.Distance(a.Pos, b.Pos, c) < (a.Size+b.Size)/2
}

// Connects reports whether two identically-tagged markers are within chain
// reach: distance < (sizeA+sizeB)/2 * ChainReach.
func Connects(a, b sticker.Marker, c geo.Container) bool {
	if a.ID == b.ID || a.Tag != b.Tag {
		return false
	}
	return geo.Distance(a.Pos, b.Pos, c) < (a.Size+b.Size)/2*ChainReach
}

// Detect computes fusions and chains for the given marker set.
//
// broken is the set of marker IDs manually excluded from chain
// participation; it may be nil. If fewer than two markers are present or
// the container has not been measured, the result is vacuously empty.
func Detect(markers []sticker.Marker, broken map[string]bool, c geo.Container) Result {
	if len(markers) < 2 || !c.Valid() {
		return Result{}
	}

	fusions := components(markers, func(a, b sticker.Marker) bool {
		return Overlaps(a, b, c)
	})

	fused := make(map[string]bool)
	for _, f := range fusions {
		for _, id := range f {
			fused[id] = true
		}
	}

	// Chain candidates: everything not claimed by a fusion and not broken,
	// partitioned by tag. Partitioning preserves marker iteration order
	// within each group.
	groups := make(map[string][]sticker.Marker)
	var tags []string
	for _, m := range markers {
		if fused[m.ID] || broken[m.ID] {
			continue
		}
		if _, seen := groups[m.Tag]; !seen {
			tags = append(tags, m.Tag)
		}
		groups[m.Tag] = append(groups[m.Tag], m)
	}

	var chains []Component
	for _, tag := range tags {
		group := groups[tag]
		if len(group) < 2 {
			continue
		}
		chains = append(chains, components(group, func(a, b sticker.Marker) bool {
			return Connects(a, b, c)
		})...)
	}

	return Result{Fusions: fusions, Chains: chains}
}

// components extracts connected components of size >= 2 from the graph
// whose edges are defined by the edge predicate. Traversal is an iterative
// depth-first search guarded by a visited set; component discovery follows
// marker iteration order.
func components(markers []sticker.Marker, edge func(a, b sticker.Marker) bool) []Component {
	adj := make(map[string][]string, len(markers))
	for i := range markers {
		for j := i + 1; j < len(markers); j++ {
			if edge(markers[i], markers[j]) {
				adj[markers[i].ID] = append(adj[markers[i].ID], markers[j].ID)
				adj[markers[j].ID] = append(adj[markers[j].ID], markers[i].ID)
			}
		}
	}

	visited := make(map[string]bool, len(markers))
	var result []Component

	for _, m := range markers {
		if visited[m.ID] {
			continue
		}
		var comp Component
		stack := []string{m.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[id] {
				continue
			}
			visited[id] = true
			comp = append(comp, id)
			stack = append(stack, adj[id]...)
		}
		if len(comp) >= 2 {
			result = append(result, comp)
		}
	}
	return result
}
