package sequence

import "sync"

// GroupLocks hands out one mutex per group so that mutations on the same group
// run one at a time while different groups proceed in parallel.
// Entries are dropped once nobody holds or waits for them.
type GroupLocks struct {
	mu    sync.Mutex
	locks map[string]*groupLock
}

type groupLock struct {
	mu   sync.Mutex
	refs int
}

// NewGroupLocks creates an empty lock table
func NewGroupLocks() *GroupLocks {
	return &GroupLocks{locks: make(map[string]*groupLock)}
}

// Lock blocks until the group is free and returns the matching unlock func.
func (g *GroupLocks) Lock(groupID string) (unlock func()) {
	g.mu.Lock()
	l, ok := g.locks[groupID]
	if !ok {
		l = &groupLock{}
		g.locks[groupID] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			g.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(g.locks, groupID)
			}
			g.mu.Unlock()
		})
	}
}

// Len returns the number of groups currently locked or awaited
func (g *GroupLocks) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
