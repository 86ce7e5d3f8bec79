package sequence

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Violation describes a single broken chain invariant.
type Violation struct {
	NodeID  string
	Problem string
}

func (v *Violation) Error() string {
	if v.NodeID == "" {
		return v.Problem
	}
	return fmt.Sprintf("node %s: %s", v.NodeID, v.Problem)
}

// Unwrap lets errors.Is(err, ErrCorruptChain) match any violation
func (v *Violation) Unwrap() error {
	return ErrCorruptChain
}

// Check verifies that nodes form exactly one valid chain and returns every
// violation found, or nil. An empty group is valid.
func Check[N Node](nodes []N) error {
	if len(nodes) == 0 {
		return nil
	}

	var result *multierror.Error
	report := func(id, format string, args ...any) {
		result = multierror.Append(result, &Violation{NodeID: id, Problem: fmt.Sprintf(format, args...)})
	}

	byID := make(map[string]*Link, len(nodes))
	group := nodes[0].Chain().GroupID
	for _, n := range nodes {
		link := n.Chain()
		if _, dup := byID[link.ID]; dup {
			report(link.ID, "duplicate id")
			continue
		}
		byID[link.ID] = link
		if link.GroupID != group {
			report(link.ID, "belongs to group %s, expected %s", link.GroupID, group)
		}
	}

	heads, tails := 0, 0
	var head *Link
	prevOwners := make(map[string]string) // referenced id -> referencing node (via prev)
	nextOwners := make(map[string]string) // referenced id -> referencing node (via next)

	for _, n := range nodes {
		link := n.Chain()
		if link.PrevID == nil {
			heads++
			if head == nil {
				head = link
			}
		} else {
			if *link.PrevID == link.ID {
				report(link.ID, "prev points at itself")
			}
			prev, ok := byID[*link.PrevID]
			switch {
			case !ok:
				report(link.ID, "prev %s does not exist in group", *link.PrevID)
			case !refersTo(prev.NextID, link.ID):
				report(link.ID, "prev %s does not point back via next", *link.PrevID)
			}
			if other, taken := prevOwners[*link.PrevID]; taken {
				report(link.ID, "shares prev %s with node %s", *link.PrevID, other)
			} else {
				prevOwners[*link.PrevID] = link.ID
			}
		}

		if link.NextID == nil {
			tails++
		} else {
			if *link.NextID == link.ID {
				report(link.ID, "next points at itself")
			}
			next, ok := byID[*link.NextID]
			switch {
			case !ok:
				report(link.ID, "next %s does not exist in group", *link.NextID)
			case !refersTo(next.PrevID, link.ID):
				report(link.ID, "next %s does not point back via prev", *link.NextID)
			}
			if other, taken := nextOwners[*link.NextID]; taken {
				report(link.ID, "shares next %s with node %s", *link.NextID, other)
			} else {
				nextOwners[*link.NextID] = link.ID
			}
		}
	}

	if heads != 1 {
		report("", "group %s has %d heads, expected 1", group, heads)
	}
	if tails != 1 {
		report("", "group %s has %d tails, expected 1", group, tails)
	}

	// Reachability from the first head
	if head != nil {
		visited := make(map[string]bool, len(byID))
		current := head
		for current != nil {
			if visited[current.ID] {
				report(current.ID, "cycle detected")
				break
			}
			visited[current.ID] = true
			if current.NextID == nil {
				break
			}
			current = byID[*current.NextID]
		}
		for _, n := range nodes {
			if id := n.Chain().ID; !visited[id] {
				report(id, "unreachable from head %s", head.ID)
			}
		}
	}

	return result.ErrorOrNil()
}
