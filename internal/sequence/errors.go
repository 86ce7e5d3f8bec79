package sequence

import "errors"

// Sequence errors
var (
	// ErrNotFound indicates the node or predecessor does not exist in the stated group
	ErrNotFound = errors.New("node not found in group")

	// ErrSelfReference indicates a relocate request naming the node as its own predecessor
	ErrSelfReference = errors.New("node cannot be placed after itself")

	// ErrAmbiguous indicates more than one node matched a lookup that assumes uniqueness.
	// It always points at an earlier invariant violation and is never resolved silently.
	ErrAmbiguous = errors.New("more than one node matches")

	// ErrCorruptChain indicates the prev/next references of a group violate the chain invariants
	ErrCorruptChain = errors.New("corrupt chain")

	// ErrInvalidNode indicates a node without an identifier was handed to the engine
	ErrInvalidNode = errors.New("node has no id")
)
