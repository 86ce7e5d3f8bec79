package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsUnique(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()
	id := NewID()

	got, err := ParseID(strings.ToUpper(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseID("not-an-id")
	assert.Error(t, err)
}
