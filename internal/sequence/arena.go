package sequence

import (
	"context"
	"fmt"
)

// arena is the in-memory working copy of one group. The engine runs every
// algorithm against it and only then writes the changed nodes back.
type arena[N Node] struct {
	groupID string
	nodes   map[string]N
	order   []string        // load order, keeps write-back deterministic
	before  map[string]Link // pointer state as loaded
	created []string
	removed []N
}

func loadArena[N Node](ctx context.Context, store Store[N], groupID string) (*arena[N], error) {
	nodes, err := store.FindAll(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group %s: %w", groupID, err)
	}

	a := &arena[N]{
		groupID: groupID,
		nodes:   make(map[string]N, len(nodes)),
		order:   make([]string, 0, len(nodes)),
		before:  make(map[string]Link, len(nodes)),
	}
	for _, n := range nodes {
		link := n.Chain()
		a.nodes[link.ID] = n
		a.order = append(a.order, link.ID)
		a.before[link.ID] = CloneLink(*link)
	}
	return a, nil
}

func (a *arena[N]) get(id string) (N, bool) {
	n, ok := a.nodes[id]
	return n, ok
}

// list returns the current members in load order followed by created nodes
func (a *arena[N]) list() []N {
	result := make([]N, 0, len(a.nodes))
	for _, id := range a.order {
		if n, ok := a.nodes[id]; ok {
			result = append(result, n)
		}
	}
	for _, id := range a.created {
		if n, ok := a.nodes[id]; ok {
			result = append(result, n)
		}
	}
	return result
}

// findBy returns the unique member (other than skip) matching f.
func (a *arena[N]) findBy(f Filter, skip string) (N, bool, error) {
	var match N
	found := false
	for _, n := range a.list() {
		link := n.Chain()
		if link.ID == skip || !f.Match(link) {
			continue
		}
		if found {
			return match, false, fmt.Errorf("%w: %s in group %s", ErrAmbiguous, f, a.groupID)
		}
		match = n
		found = true
	}
	return match, found, nil
}

// detach unlinks n from its neighbours. Neighbours are located by value, not
// by following n's own fields, since those may be stale.
func (a *arena[N]) detach(n N) error {
	link := n.Chain()

	prevOld, hasPrev, err := a.findBy(Precedes(link.ID), link.ID)
	if err != nil {
		return err
	}
	nextOld, hasNext, err := a.findBy(Follows(link.ID), link.ID)
	if err != nil {
		return err
	}

	switch {
	case hasPrev && hasNext:
		prevOld.Chain().NextID = Ref(nextOld.Chain().ID)
		nextOld.Chain().PrevID = Ref(prevOld.Chain().ID)
	case hasPrev:
		prevOld.Chain().NextID = nil
	case hasNext:
		nextOld.Chain().PrevID = nil
	}

	link.PrevID = nil
	link.NextID = nil
	return nil
}

// attach splices n (which must not be a member) after afterID, or at the
// head when afterID is nil, and makes it a member.
func (a *arena[N]) attach(n N, afterID *string) error {
	link := n.Chain()

	if afterID == nil {
		head, hasHead, err := a.findBy(IsHead(), link.ID)
		if err != nil {
			return err
		}
		link.PrevID = nil
		link.NextID = nil
		if hasHead {
			link.NextID = Ref(head.Chain().ID)
			head.Chain().PrevID = Ref(link.ID)
		}
		a.nodes[link.ID] = n
		return nil
	}

	prev, ok := a.nodes[*afterID]
	if !ok || *afterID == link.ID {
		return fmt.Errorf("%w: predecessor %s in group %s", ErrNotFound, *afterID, a.groupID)
	}
	prevLink := prev.Chain()

	var next N
	hasNext := false
	if prevLink.NextID != nil {
		next, hasNext = a.nodes[*prevLink.NextID]
		if !hasNext {
			return &Violation{NodeID: prevLink.ID, Problem: fmt.Sprintf("next %s does not exist in group", *prevLink.NextID)}
		}
	}

	link.PrevID = Ref(prevLink.ID)
	link.NextID = copyRef(prevLink.NextID)
	prevLink.NextID = Ref(link.ID)
	if hasNext {
		next.Chain().PrevID = Ref(link.ID)
	}
	a.nodes[link.ID] = n
	return nil
}

// take removes n from the member set without touching any pointers
func (a *arena[N]) take(id string) {
	delete(a.nodes, id)
}

func (a *arena[N]) insertNew(n N, afterID *string) error {
	if err := a.attach(n, afterID); err != nil {
		return err
	}
	a.created = append(a.created, n.Chain().ID)
	return nil
}

func (a *arena[N]) remove(n N) error {
	if err := a.detach(n); err != nil {
		return err
	}
	a.take(n.Chain().ID)
	a.removed = append(a.removed, n)
	return nil
}

// dirty returns loaded members whose pointers differ from the loaded state
func (a *arena[N]) dirty() []N {
	var result []N
	for _, id := range a.order {
		n, ok := a.nodes[id]
		if !ok {
			continue
		}
		was := a.before[id]
		now := n.Chain()
		if !sameRef(was.PrevID, now.PrevID) || !sameRef(was.NextID, now.NextID) {
			result = append(result, n)
		}
	}
	return result
}

// flush writes created nodes, then pointer updates, then deletions. It
// returns the number of node writes.
func (a *arena[N]) flush(ctx context.Context, store Store[N]) (int, error) {
	writes := 0
	for _, id := range a.created {
		if err := store.Create(ctx, a.nodes[id]); err != nil {
			return writes, err
		}
		writes++
	}
	for _, n := range a.dirty() {
		if err := store.Update(ctx, n); err != nil {
			return writes, err
		}
		writes++
	}
	for _, n := range a.removed {
		if err := store.Delete(ctx, n); err != nil {
			return writes, err
		}
		writes++
	}
	return writes, nil
}
