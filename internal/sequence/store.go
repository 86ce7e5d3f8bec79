package sequence

import (
	"context"
	"fmt"
)

// Field names one of the link fields a Filter can match on.
type Field int

const (
	FieldID Field = iota
	FieldPrev
	FieldNext
)

func (f Field) String() string {
	switch f {
	case FieldID:
		return "id"
	case FieldPrev:
		return "prev"
	case FieldNext:
		return "next"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Filter is a field-equality condition inside a group. A nil Value matches
// nodes whose field is unset, which is how heads and tails are found.
type Filter struct {
	Field Field
	Value *string
}

// ByID matches the node with the given id
func ByID(id string) Filter {
	return Filter{Field: FieldID, Value: &id}
}

// IsHead matches nodes without a predecessor
func IsHead() Filter {
	return Filter{Field: FieldPrev}
}

// IsTail matches nodes without a successor
func IsTail() Filter {
	return Filter{Field: FieldNext}
}

// Follows matches nodes whose predecessor is id
func Follows(id string) Filter {
	return Filter{Field: FieldPrev, Value: &id}
}

// Precedes matches nodes whose successor is id
func Precedes(id string) Filter {
	return Filter{Field: FieldNext, Value: &id}
}

// Match reports whether l satisfies the filter
func (f Filter) Match(l *Link) bool {
	switch f.Field {
	case FieldID:
		return f.Value != nil && l.ID == *f.Value
	case FieldPrev:
		return sameRef(l.PrevID, f.Value)
	case FieldNext:
		return sameRef(l.NextID, f.Value)
	default:
		return false
	}
}

func (f Filter) String() string {
	if f.Value == nil {
		return f.Field.String() + " IS NULL"
	}
	return fmt.Sprintf("%s = %s", f.Field, *f.Value)
}

// Store is the persistence contract the engine consumes. Implementations
// return ErrNotFound (possibly wrapped) for missing nodes and ErrAmbiguous when
// FindOne matches more than one node.
type Store[N Node] interface {
	Create(ctx context.Context, n N) error
	Update(ctx context.Context, n N) error
	Delete(ctx context.Context, n N) error

	// Get loads a node by id regardless of group
	Get(ctx context.Context, id string) (N, error)

	// FindOne returns the single node in groupID matching f
	FindOne(ctx context.Context, groupID string, f Filter) (N, error)

	// FindAll returns every node of groupID in no particular order
	FindAll(ctx context.Context, groupID string) ([]N, error)

	// Atomic runs fn as a single unit against groupID. Writes made through the
	// Store passed to fn become visible together or not at all.
	Atomic(ctx context.Context, groupID string, fn func(Store[N]) error) error
}
