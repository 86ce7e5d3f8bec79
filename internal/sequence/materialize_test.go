package sequence_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/thenoetrevino/tramo/internal/sequence"
)

func TestMaterialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		nodes  []*item
		want   []string
		reason string
	}{
		{
			name:   "empty",
			nodes:  nil,
			want:   []string{},
			reason: "ok",
		},
		{
			name:   "single node",
			nodes:  []*item{linked("A", "", "")},
			want:   []string{"A"},
			reason: "ok",
		},
		{
			name: "shuffled input",
			nodes: []*item{
				linked("C", "B", "D"),
				linked("A", "", "B"),
				linked("D", "C", ""),
				linked("B", "A", "C"),
			},
			want:   []string{"A", "B", "C", "D"},
			reason: "ok",
		},
		{
			name: "no head",
			nodes: []*item{
				linked("A", "B", "B"),
				linked("B", "A", "A"),
			},
			want:   []string{},
			reason: "no_head",
		},
		{
			name: "dangling next",
			nodes: []*item{
				linked("A", "", "B"),
				linked("B", "A", "gone"),
			},
			want:   []string{"A", "B"},
			reason: "dangling",
		},
		{
			name: "cycle after head",
			nodes: []*item{
				linked("A", "", "B"),
				linked("B", "A", "C"),
				linked("C", "B", "B"),
			},
			want:   []string{"A", "B", "C"},
			reason: "cycle",
		},
		{
			name: "unreachable node",
			nodes: []*item{
				linked("A", "", "B"),
				linked("B", "A", ""),
				linked("X", "gone", ""),
			},
			want:   []string{"A", "B"},
			reason: "orphans",
		},
		{
			name: "two heads",
			nodes: []*item{
				linked("A", "", "B"),
				linked("B", "A", ""),
				linked("C", "", ""),
			},
			want:   []string{"A", "B"},
			reason: "multiple_heads",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, diag := sequence.Materialize(tt.nodes)

			if diff := cmp.Diff(tt.want, sequence.IDs(got)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.reason, diag.Reason())
			assert.Equal(t, tt.reason != "ok", diag.Degraded())
			assert.Equal(t, len(tt.nodes), diag.Total)
			assert.Equal(t, len(tt.want), diag.Visited)
		})
	}
}

func TestMaterializeReportsOrphans(t *testing.T) {
	t.Parallel()
	nodes := []*item{
		linked("A", "", "B"),
		linked("X", "gone", "Y"),
		linked("B", "A", ""),
		linked("Y", "X", ""),
	}

	_, diag := sequence.Materialize(nodes)

	assert.Equal(t, []string{"X", "Y"}, diag.Orphans)
	assert.Contains(t, diag.String(), "orphans X,Y")
}

// A pre-filtered batch that lacks the head yields nothing. Filtering belongs
// after materialization.
func TestMaterializeRequiresFullGroup(t *testing.T) {
	t.Parallel()
	full := []*item{
		linked("A", "", "B"),
		linked("B", "A", "C"),
		linked("C", "B", ""),
	}
	notA := func(n *item) bool { return n.ID != "A" }

	var filtered []*item
	for _, n := range full {
		if notA(n) {
			filtered = append(filtered, n)
		}
	}
	got, diag := sequence.Materialize(filtered)
	assert.Empty(t, got)
	assert.True(t, diag.Degraded())

	ordered, _ := sequence.Materialize(full)
	assert.Equal(t, []string{"B", "C"}, sequence.IDs(sequence.Keep(ordered, notA)))
}

func TestMaterializeDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	nodes := []*item{linked("B", "A", ""), linked("A", "", "B")}

	sequence.Materialize(nodes)

	assert.Equal(t, "B", nodes[0].ID)
	assert.Equal(t, "A", sequence.Deref(nodes[0].PrevID))
}
