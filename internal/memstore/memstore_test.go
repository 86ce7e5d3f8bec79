package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tramo/internal/sequence"
)

type node struct {
	sequence.Link
	Name string
}

func (n *node) Clone() *node {
	c := *n
	c.Link = sequence.CloneLink(n.Link)
	return &c
}

func newNode(id, group, prev, next string) *node {
	return &node{Link: sequence.Link{
		ID:      id,
		GroupID: group,
		PrevID:  sequence.Ref(prev),
		NextID:  sequence.Ref(next),
	}, Name: id}
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New[*node]()

	require.NoError(t, s.Create(ctx, newNode("a", "g", "", "")))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, 1, s.Writes())

	err = s.Create(ctx, newNode("a", "g", "", ""))
	assert.ErrorIs(t, err, ErrExists)
}

func TestReturnsClones(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New[*node]()
	original := newNode("a", "g", "", "b")
	require.NoError(t, s.Create(ctx, original))

	original.Name = "changed"
	*original.NextID = "z"
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, "b", sequence.Deref(got.NextID))

	got.Name = "changed again"
	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Name)
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New[*node]()

	assert.ErrorIs(t, s.Update(ctx, newNode("a", "g", "", "")), sequence.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, newNode("a", "g", "", "")), sequence.ErrNotFound)
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, sequence.ErrNotFound)
}

func TestFindOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New[*node]()
	s.Put(newNode("a", "g", "", "b"))
	s.Put(newNode("b", "g", "a", ""))
	s.Put(newNode("x", "other", "", ""))

	head, err := s.FindOne(ctx, "g", sequence.IsHead())
	require.NoError(t, err)
	assert.Equal(t, "a", head.ID)

	next, err := s.FindOne(ctx, "g", sequence.Follows("a"))
	require.NoError(t, err)
	assert.Equal(t, "b", next.ID)

	_, err = s.FindOne(ctx, "g", sequence.Follows("b"))
	assert.ErrorIs(t, err, sequence.ErrNotFound)

	s.Put(newNode("c", "g", "", ""))
	_, err = s.FindOne(ctx, "g", sequence.IsHead())
	assert.ErrorIs(t, err, sequence.ErrAmbiguous)
}

func TestFindAllScopesToGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New[*node]()
	s.Put(newNode("a", "g", "", ""))
	s.Put(newNode("x", "other", "", ""))
	s.Put(newNode("b", "g", "", ""))

	nodes, err := s.FindAll(ctx, "g")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, sequence.IDs(nodes))
}

func TestAtomicCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New[*node]()

	err := s.Atomic(ctx, "g", func(tx sequence.Store[*node]) error {
		if err := tx.Create(ctx, newNode("a", "g", "", "")); err != nil {
			return err
		}
		return tx.Create(ctx, newNode("b", "g", "", ""))
	})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.Writes())
}

func TestAtomicRollback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New[*node]()
	s.Put(newNode("a", "g", "", ""))
	boom := errors.New("boom")

	err := s.Atomic(ctx, "g", func(tx sequence.Store[*node]) error {
		n, err := tx.Get(ctx, "a")
		if err != nil {
			return err
		}
		n.Name = "staged"
		if err := tx.Update(ctx, n); err != nil {
			return err
		}
		if err := tx.Create(ctx, newNode("b", "g", "", "")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.Writes())
}

func TestAtomicCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New[*node]()

	called := false
	err := s.Atomic(ctx, "g", func(sequence.Store[*node]) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestFailOn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New[*node]()
	boom := errors.New("boom")

	s.FailOn(OpCreate, boom)
	assert.ErrorIs(t, s.Create(ctx, newNode("a", "g", "", "")), boom)

	s.FailOn(OpCreate, nil)
	assert.NoError(t, s.Create(ctx, newNode("a", "g", "", "")))
}
