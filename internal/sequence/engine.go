package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Operation names reported to the Recorder
const (
	OpInsert   = "insert"
	OpRelocate = "relocate"
	OpRemove   = "remove"
	OpRepair   = "repair"
)

// Recorder receives engine outcomes. internal/metrics provides the
// Prometheus-backed implementation.
type Recorder interface {
	ObserveOperation(kind, op string, err error)
	ObserveDegraded(kind, reason string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string, error) {}
func (nopRecorder) ObserveDegraded(string, string)         {}

type engineConfig struct {
	logger   *slog.Logger
	recorder Recorder
	locks    *GroupLocks
}

// Option configures an Engine
type Option func(*engineConfig)

// WithLogger sets the logger used for degraded reads and repairs
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets the outcome recorder
func WithRecorder(r Recorder) Option {
	return func(c *engineConfig) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLocks shares a lock table between engines that write to the same groups
func WithLocks(locks *GroupLocks) Option {
	return func(c *engineConfig) {
		if locks != nil {
			c.locks = locks
		}
	}
}

// Engine maintains the chain of every group of one node kind.
//
// Each mutation loads the whole group, applies the change in memory, checks
// the resulting chain and then writes back only the nodes whose references
// changed, all inside one Store.Atomic call while holding the group's lock.
type Engine[N Node] struct {
	kind     string
	store    Store[N]
	logger   *slog.Logger
	recorder Recorder
	locks    *GroupLocks
}

// NewEngine creates an engine for nodes of the given kind ("module", "project")
func NewEngine[N Node](kind string, store Store[N], opts ...Option) *Engine[N] {
	cfg := &engineConfig{
		logger:   slog.Default(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.locks == nil {
		cfg.locks = NewGroupLocks()
	}
	return &Engine[N]{
		kind:     kind,
		store:    store,
		logger:   cfg.logger,
		recorder: cfg.recorder,
		locks:    cfg.locks,
	}
}

// Kind returns the node kind this engine manages
func (e *Engine[N]) Kind() string {
	return e.kind
}

// Insert adds n to groupID. With afterID nil the node becomes the new head,
// otherwise it is placed directly after afterID, which must belong to the
// group, else ErrNotFound. In an empty group any afterID is ErrNotFound.
//
// n must carry its id; its group and references are overwritten on success
// and left as they were on failure.
func (e *Engine[N]) Insert(ctx context.Context, n N, groupID string, afterID *string) (N, error) {
	link := n.Chain()
	if link.ID == "" {
		var zero N
		return zero, ErrInvalidNode
	}
	original := CloneLink(*link)
	link.GroupID = groupID

	unlock := e.locks.Lock(groupID)
	defer unlock()

	err := e.store.Atomic(ctx, groupID, func(tx Store[N]) error {
		a, err := loadArena(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if _, exists := a.get(link.ID); exists {
			return fmt.Errorf("%w: %s already belongs to group %s", ErrInvalidNode, link.ID, groupID)
		}
		if err := a.insertNew(n, afterID); err != nil {
			return err
		}
		return e.commit(ctx, tx, a)
	})
	e.recorder.ObserveOperation(e.kind, OpInsert, err)
	if err != nil {
		*link = original
		var zero N
		return zero, err
	}
	return n, nil
}

// Relocate moves the node to directly after afterID, or to the head when
// afterID is nil. The node keeps its id and payload.
func (e *Engine[N]) Relocate(ctx context.Context, id string, afterID *string) (N, error) {
	var moved N
	err := e.relocate(ctx, id, afterID, &moved)
	e.recorder.ObserveOperation(e.kind, OpRelocate, err)
	return moved, err
}

func (e *Engine[N]) relocate(ctx context.Context, id string, afterID *string, moved *N) error {
	if afterID != nil && *afterID == id {
		return fmt.Errorf("%w: %s", ErrSelfReference, id)
	}

	groupID, err := e.groupOf(ctx, id)
	if err != nil {
		return err
	}

	unlock := e.locks.Lock(groupID)
	defer unlock()

	return e.store.Atomic(ctx, groupID, func(tx Store[N]) error {
		a, err := loadArena(ctx, tx, groupID)
		if err != nil {
			return err
		}
		n, ok := a.get(id)
		if !ok {
			return fmt.Errorf("%w: %s %s", ErrNotFound, e.kind, id)
		}
		if afterID != nil {
			if _, ok := a.get(*afterID); !ok {
				return fmt.Errorf("%w: predecessor %s in group %s", ErrNotFound, *afterID, groupID)
			}
		}

		if err := a.detach(n); err != nil {
			return err
		}
		a.take(id)
		if err := a.attach(n, afterID); err != nil {
			return err
		}
		if err := e.commit(ctx, tx, a); err != nil {
			return err
		}
		*moved = n
		return nil
	})
}

// Remove unlinks the node from its neighbours and deletes it. Removing the
// last member leaves an empty group.
func (e *Engine[N]) Remove(ctx context.Context, id string) (N, error) {
	var removed N
	err := e.remove(ctx, id, &removed)
	e.recorder.ObserveOperation(e.kind, OpRemove, err)
	return removed, err
}

func (e *Engine[N]) remove(ctx context.Context, id string, removed *N) error {
	groupID, err := e.groupOf(ctx, id)
	if err != nil {
		return err
	}

	unlock := e.locks.Lock(groupID)
	defer unlock()

	return e.store.Atomic(ctx, groupID, func(tx Store[N]) error {
		a, err := loadArena(ctx, tx, groupID)
		if err != nil {
			return err
		}
		n, ok := a.get(id)
		if !ok {
			return fmt.Errorf("%w: %s %s", ErrNotFound, e.kind, id)
		}
		if err := a.remove(n); err != nil {
			return err
		}
		if err := e.commit(ctx, tx, a); err != nil {
			return err
		}
		*removed = n
		return nil
	})
}

// List returns the group in chain order.
//
// A group with more than one head fails with ErrAmbiguous. Other broken
// chains yield the reachable prefix; the problem is logged and recorded.
func (e *Engine[N]) List(ctx context.Context, groupID string) ([]N, error) {
	nodes, err := e.store.FindAll(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s group %s: %w", e.kind, groupID, err)
	}

	ordered, diag := Materialize(nodes)
	if !diag.Degraded() {
		return ordered, nil
	}

	e.recorder.ObserveDegraded(e.kind, diag.Reason())
	if diag.Heads > 1 {
		return nil, fmt.Errorf("%w: %d heads in %s group %s", ErrAmbiguous, diag.Heads, e.kind, groupID)
	}
	e.logger.Warn("degraded sequence",
		"kind", e.kind,
		"group_id", groupID,
		"reason", diag.Reason(),
		"ordered", diag.Visited,
		"total", diag.Total,
		"orphans", diag.Orphans)
	return ordered, nil
}

// Head returns the first node of the group. ok is false for an empty group.
func (e *Engine[N]) Head(ctx context.Context, groupID string) (n N, ok bool, err error) {
	return e.findOne(ctx, groupID, IsHead())
}

// Next returns the node directly after id. ok is false when id is the tail.
func (e *Engine[N]) Next(ctx context.Context, id string) (n N, ok bool, err error) {
	groupID, err := e.groupOf(ctx, id)
	if err != nil {
		return n, false, err
	}
	return e.findOne(ctx, groupID, Follows(id))
}

func (e *Engine[N]) findOne(ctx context.Context, groupID string, f Filter) (N, bool, error) {
	var zero N
	n, err := e.store.FindOne(ctx, groupID, f)
	switch {
	case errors.Is(err, ErrNotFound):
		return zero, false, nil
	case err != nil:
		return zero, false, fmt.Errorf("failed to find %s where %s in group %s: %w", e.kind, f, groupID, err)
	}
	return n, true, nil
}

// Check loads the group and verifies its chain. The returned error lists
// every violation and matches ErrCorruptChain.
func (e *Engine[N]) Check(ctx context.Context, groupID string) error {
	nodes, err := e.store.FindAll(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to load %s group %s: %w", e.kind, groupID, err)
	}
	return Check(nodes)
}

// Repair rewrites the references of a broken group. The reachable prefix
// keeps its order and every other node is appended after it in load order.
// It returns the number of nodes written, zero for a healthy group.
func (e *Engine[N]) Repair(ctx context.Context, groupID string) (int, error) {
	unlock := e.locks.Lock(groupID)
	defer unlock()

	writes := 0
	err := e.store.Atomic(ctx, groupID, func(tx Store[N]) error {
		a, err := loadArena(ctx, tx, groupID)
		if err != nil {
			return err
		}
		members := a.list()
		if Check(members) == nil {
			return nil
		}

		ordered, diag := Materialize(members)
		reached := make(map[string]bool, len(ordered))
		for _, n := range ordered {
			reached[n.Chain().ID] = true
		}
		for _, n := range members {
			if !reached[n.Chain().ID] {
				ordered = append(ordered, n)
			}
		}
		relink(ordered)

		e.logger.Warn("repairing sequence",
			"kind", e.kind,
			"group_id", groupID,
			"reason", diag.Reason(),
			"orphans", diag.Orphans)

		if err := Check(a.list()); err != nil {
			return fmt.Errorf("%w: repair of group %s: %v", ErrCorruptChain, groupID, err)
		}
		writes, err = a.flush(ctx, tx)
		return err
	})
	e.recorder.ObserveOperation(e.kind, OpRepair, err)
	return writes, err
}

// relink rewrites references so nodes form a chain in slice order
func relink[N Node](nodes []N) {
	for i, n := range nodes {
		link := n.Chain()
		link.PrevID = nil
		link.NextID = nil
		if i > 0 {
			link.PrevID = Ref(nodes[i-1].Chain().ID)
		}
		if i < len(nodes)-1 {
			link.NextID = Ref(nodes[i+1].Chain().ID)
		}
	}
}

// commit checks the arena and writes the changes through tx
func (e *Engine[N]) commit(ctx context.Context, tx Store[N], a *arena[N]) error {
	if err := Check(a.list()); err != nil {
		return fmt.Errorf("%w: refusing to write %s group %s: %v", ErrCorruptChain, e.kind, a.groupID, err)
	}
	writes, err := a.flush(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to write %s group %s: %w", e.kind, a.groupID, err)
	}
	e.logger.Debug("sequence updated", "kind", e.kind, "group_id", a.groupID, "writes", writes)
	return nil
}

func (e *Engine[N]) groupOf(ctx context.Context, id string) (string, error) {
	n, err := e.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: %s %s", ErrNotFound, e.kind, id)
		}
		return "", fmt.Errorf("failed to load %s %s: %w", e.kind, id, err)
	}
	return n.Chain().GroupID, nil
}
