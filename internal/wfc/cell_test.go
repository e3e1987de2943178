package wfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellConstrain(t *testing.T) {
	tests := []struct {
		name       string
		states     []int
		candidates []int
		want       []int
		shrank     bool
	}{
		{"disjoint", []int{1, 2, 3}, []int{4, 5}, []int{}, true},
		{"subset", []int{1, 2, 3, 4}, []int{2, 4}, []int{2, 4}, true},
		{"superset", []int{2, 4}, []int{1, 2, 3, 4, 5}, []int{2, 4}, false},
		{"equal", []int{2, 4}, []int{2, 4}, []int{2, 4}, false},
		{"unsorted candidates", []int{1, 2, 3}, []int{3, 1, 3}, []int{1, 3}, true},
		{"empty candidates", []int{7}, nil, []int{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := NewCell(tt.states)
			assert.Equal(t, tt.shrank, cell.Constrain(tt.candidates))
			assert.Equal(t, tt.want, cell.States())
		})
	}
}

func TestCellConstrainIdempotent(t *testing.T) {
	cell := NewCell([]int{0, 19, 20})

	for i := 0; i < 3; i++ {
		assert.False(t, cell.Constrain([]int{0, 19, 20, 21, 22}), "superset constrain %d reported a change", i)
	}
	assert.Equal(t, []int{0, 19, 20}, cell.States())
	assert.Equal(t, 3, cell.Entropy())
}

func TestCellQueries(t *testing.T) {
	cell := NewCell([]int{9, 3, 3})
	assert.Equal(t, 2, cell.Entropy())
	assert.False(t, cell.IsCollapsed())
	assert.False(t, cell.IsInvalid())
	assert.Zero(t, cell.State())

	cell.Constrain([]int{9})
	assert.True(t, cell.IsCollapsed())
	assert.Equal(t, 9, cell.State())

	cell.Constrain([]int{3})
	assert.True(t, cell.IsInvalid())
	assert.Equal(t, 0, cell.Entropy())
}

func TestCellStatesIsCopy(t *testing.T) {
	cell := NewCell([]int{1, 2})
	states := cell.States()
	states[0] = 99
	assert.Equal(t, []int{1, 2}, cell.States())
}
