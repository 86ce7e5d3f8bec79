package sequence

import (
	"fmt"
	"strings"
)

// Diagnosis describes how well an unordered batch of nodes formed a chain.
type Diagnosis struct {
	Total    int      // Nodes in the input
	Heads    int      // Nodes without a predecessor
	Visited  int      // Nodes reached from the head
	Dangling string   // Id referenced as next but absent from the input
	Cycle    bool     // The walk came back to a visited node
	Orphans  []string // Nodes not reachable from the head, in input order
}

// Degraded reports whether the materialized list is missing nodes or was
// built from an input that breaks the chain invariants.
func (d Diagnosis) Degraded() bool {
	if d.Total == 0 {
		return false
	}
	return d.Heads != 1 || d.Dangling != "" || d.Cycle || len(d.Orphans) > 0
}

// Reason gives a short machine-friendly label for the first problem found.
func (d Diagnosis) Reason() string {
	switch {
	case !d.Degraded():
		return "ok"
	case d.Heads == 0:
		return "no_head"
	case d.Heads > 1:
		return "multiple_heads"
	case d.Cycle:
		return "cycle"
	case d.Dangling != "":
		return "dangling"
	default:
		return "orphans"
	}
}

func (d Diagnosis) String() string {
	if !d.Degraded() {
		return fmt.Sprintf("%d/%d nodes ordered", d.Visited, d.Total)
	}
	var parts []string
	parts = append(parts, fmt.Sprintf("%d/%d nodes ordered", d.Visited, d.Total))
	if d.Heads != 1 {
		parts = append(parts, fmt.Sprintf("%d heads", d.Heads))
	}
	if d.Cycle {
		parts = append(parts, "cycle")
	}
	if d.Dangling != "" {
		parts = append(parts, "dangling next "+d.Dangling)
	}
	if len(d.Orphans) > 0 {
		parts = append(parts, "orphans "+strings.Join(d.Orphans, ","))
	}
	return strings.Join(parts, "; ")
}

// Materialize reconstructs the canonical order of nodes by walking next
// references from the head.
//
// The input must be the full, unfiltered group. A pre-filtered batch may not
// contain the head, in which case the result is empty. To get an ordered
// subset, materialize the whole group and then apply Keep.
//
// The walk stops at the tail, at a next reference that is not part of the
// input, or when it would revisit a node. Nodes never reached are left out of
// the result and listed in the Diagnosis so that callers can report them.
func Materialize[N Node](nodes []N) ([]N, Diagnosis) {
	diag := Diagnosis{Total: len(nodes)}
	if len(nodes) == 0 {
		return []N{}, diag
	}

	// Index by id for O(1) hops
	byID := make(map[string]N, len(nodes))
	var head N
	found := false
	for _, n := range nodes {
		link := n.Chain()
		byID[link.ID] = n
		if link.PrevID == nil {
			diag.Heads++
			if !found {
				head = n
				found = true
			}
		}
	}

	visited := make(map[string]bool, len(nodes))
	ordered := make([]N, 0, len(nodes))

	if found {
		current := head
		for {
			id := current.Chain().ID
			if visited[id] {
				diag.Cycle = true
				break
			}
			visited[id] = true
			ordered = append(ordered, current)

			next := current.Chain().NextID
			if next == nil {
				break
			}
			n, ok := byID[*next]
			if !ok {
				diag.Dangling = *next
				break
			}
			current = n
		}
	}

	diag.Visited = len(ordered)
	for _, n := range nodes {
		if id := n.Chain().ID; !visited[id] {
			diag.Orphans = append(diag.Orphans, id)
		}
	}

	return ordered, diag
}

// Keep returns the elements of an already ordered slice that satisfy keep,
// preserving order.
func Keep[N Node](ordered []N, keep func(N) bool) []N {
	result := make([]N, 0, len(ordered))
	for _, n := range ordered {
		if keep(n) {
			result = append(result, n)
		}
	}
	return result
}

// IDs returns the ids of nodes in slice order
func IDs[N Node](nodes []N) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.Chain().ID
	}
	return ids
}
