// Package sequence keeps scoped groups of nodes in a strict linear order using
// per-node prev/next references instead of a position column.
package sequence

// Link holds the ordering fields of a node. Domain types embed it so that the
// engine can read and rewrite the chain without knowing the payload.
type Link struct {
	ID      string  // Immutable node identifier
	GroupID string  // Scope of the chain (course for modules, module for projects)
	PrevID  *string // Preceding node, nil for the head
	NextID  *string // Following node, nil for the tail
}

// Chain returns the link itself. Embedding Link promotes this method, which is
// what makes a domain type satisfy Node.
func (l *Link) Chain() *Link {
	return l
}

// IsHead reports whether the node has no predecessor
func (l *Link) IsHead() bool {
	return l.PrevID == nil
}

// IsTail reports whether the node has no successor
func (l *Link) IsTail() bool {
	return l.NextID == nil
}

// Node is anything that carries a Link.
type Node interface {
	Chain() *Link
}

// Cloner is a Node that can produce an independent copy of itself.
// Stores hand out clones so that in-flight engine mutations never leak into
// persisted state before they are written back.
type Cloner[N any] interface {
	Node
	Clone() N
}

// CloneLink returns a deep copy of l.
func CloneLink(l Link) Link {
	return Link{
		ID:      l.ID,
		GroupID: l.GroupID,
		PrevID:  copyRef(l.PrevID),
		NextID:  copyRef(l.NextID),
	}
}

// Ref returns a pointer to a copy of id. An empty id yields nil.
func Ref(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// Deref returns the referenced id or "" for nil.
func Deref(ref *string) string {
	if ref == nil {
		return ""
	}
	return *ref
}

func copyRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	v := *ref
	return &v
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func refersTo(ref *string, id string) bool {
	return ref != nil && *ref == id
}
