// Package memstore provides an in-memory, transactional implementation of
// sequence.Store. It backs the engine tests and any embedded use that does not
// need SQLite.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/thenoetrevino/tramo/internal/sequence"
)

// ErrExists is returned by Create when the id is already stored
var ErrExists = errors.New("node already exists")

// Operation names accepted by FailOn
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpGet     = "get"
	OpFindOne = "find_one"
	OpFindAll = "find_all"
)

type entry[N any] struct {
	node N
	seq  int
}

type state[N sequence.Cloner[N]] struct {
	nodes map[string]entry[N]
	seq   int
}

func (s *state[N]) clone() *state[N] {
	c := &state[N]{nodes: make(map[string]entry[N], len(s.nodes)), seq: s.seq}
	for id, e := range s.nodes {
		c.nodes[id] = entry[N]{node: e.node.Clone(), seq: e.seq}
	}
	return c
}

// Store keeps nodes in a map and hands out clones, so callers never share
// memory with stored state. Atomic stages writes on a copy and swaps it in
// only when the callback succeeds.
type Store[N sequence.Cloner[N]] struct {
	mu     sync.Mutex
	state  *state[N]
	fail   map[string]error
	writes int
}

// New creates an empty store
func New[N sequence.Cloner[N]]() *Store[N] {
	return &Store[N]{
		state: &state[N]{nodes: make(map[string]entry[N])},
		fail:  make(map[string]error),
	}
}

// FailOn makes every subsequent call of op return err. A nil err clears it.
func (s *Store[N]) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

// Writes returns the number of committed create, update and delete calls
func (s *Store[N]) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Len returns the number of stored nodes across all groups
func (s *Store[N]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.nodes)
}

// Put stores n verbatim, bypassing every check. Tests use it to seed broken
// chains.
func (s *Store[N]) Put(n N) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.seq++
	s.state.nodes[n.Chain().ID] = entry[N]{node: n.Clone(), seq: s.state.seq}
}

func (s *Store[N]) view(st *state[N]) *view[N] {
	return &view[N]{state: st, fail: s.fail}
}

func (s *Store[N]) Create(ctx context.Context, n N) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view(s.state)
	if err := v.Create(ctx, n); err != nil {
		return err
	}
	s.writes++
	return nil
}

func (s *Store[N]) Update(ctx context.Context, n N) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view(s.state)
	if err := v.Update(ctx, n); err != nil {
		return err
	}
	s.writes++
	return nil
}

func (s *Store[N]) Delete(ctx context.Context, n N) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view(s.state)
	if err := v.Delete(ctx, n); err != nil {
		return err
	}
	s.writes++
	return nil
}

func (s *Store[N]) Get(ctx context.Context, id string) (N, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.state).Get(ctx, id)
}

func (s *Store[N]) FindOne(ctx context.Context, groupID string, f sequence.Filter) (N, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.state).FindOne(ctx, groupID, f)
}

func (s *Store[N]) FindAll(ctx context.Context, groupID string) ([]N, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.state).FindAll(ctx, groupID)
}

// Atomic runs fn against a staged copy of the store. The copy replaces the
// live state only if fn returns nil. Other callers block until it finishes.
func (s *Store[N]) Atomic(ctx context.Context, groupID string, fn func(sequence.Store[N]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	staged := s.view(s.state.clone())
	if err := fn(staged); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = staged.state
	s.writes += staged.writes
	return nil
}

// view implements sequence.Store over a state without locking. The caller
// holds Store.mu.
type view[N sequence.Cloner[N]] struct {
	state  *state[N]
	fail   map[string]error
	writes int
}

func (v *view[N]) failure(op string) error {
	if err, ok := v.fail[op]; ok {
		return fmt.Errorf("memstore %s: %w", op, err)
	}
	return nil
}

func (v *view[N]) Create(ctx context.Context, n N) error {
	if err := v.failure(OpCreate); err != nil {
		return err
	}
	id := n.Chain().ID
	if _, ok := v.state.nodes[id]; ok {
		return fmt.Errorf("%w: %s", ErrExists, id)
	}
	v.state.seq++
	v.state.nodes[id] = entry[N]{node: n.Clone(), seq: v.state.seq}
	v.writes++
	return nil
}

func (v *view[N]) Update(ctx context.Context, n N) error {
	if err := v.failure(OpUpdate); err != nil {
		return err
	}
	id := n.Chain().ID
	e, ok := v.state.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", sequence.ErrNotFound, id)
	}
	e.node = n.Clone()
	v.state.nodes[id] = e
	v.writes++
	return nil
}

func (v *view[N]) Delete(ctx context.Context, n N) error {
	if err := v.failure(OpDelete); err != nil {
		return err
	}
	id := n.Chain().ID
	if _, ok := v.state.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", sequence.ErrNotFound, id)
	}
	delete(v.state.nodes, id)
	v.writes++
	return nil
}

func (v *view[N]) Get(ctx context.Context, id string) (N, error) {
	var zero N
	if err := v.failure(OpGet); err != nil {
		return zero, err
	}
	e, ok := v.state.nodes[id]
	if !ok {
		return zero, fmt.Errorf("%w: %s", sequence.ErrNotFound, id)
	}
	return e.node.Clone(), nil
}

func (v *view[N]) FindOne(ctx context.Context, groupID string, f sequence.Filter) (N, error) {
	var zero N
	if err := v.failure(OpFindOne); err != nil {
		return zero, err
	}
	var matches []N
	for _, n := range v.group(groupID) {
		if f.Match(n.Chain()) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%w: %s in group %s", sequence.ErrNotFound, f, groupID)
	case 1:
		return matches[0].Clone(), nil
	default:
		return zero, fmt.Errorf("%w: %d nodes with %s in group %s", sequence.ErrAmbiguous, len(matches), f, groupID)
	}
}

func (v *view[N]) FindAll(ctx context.Context, groupID string) ([]N, error) {
	if err := v.failure(OpFindAll); err != nil {
		return nil, err
	}
	group := v.group(groupID)
	result := make([]N, len(group))
	for i, n := range group {
		result[i] = n.Clone()
	}
	return result, nil
}

// Atomic on a view is already inside a unit of work
func (v *view[N]) Atomic(ctx context.Context, groupID string, fn func(sequence.Store[N]) error) error {
	return fn(v)
}

// group returns the members of groupID in insertion order
func (v *view[N]) group(groupID string) []N {
	var entries []entry[N]
	for _, e := range v.state.nodes {
		if e.node.Chain().GroupID == groupID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	nodes := make([]N, len(entries))
	for i, e := range entries {
		nodes[i] = e.node
	}
	return nodes
}
