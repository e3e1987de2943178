package wfc

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// all4 returns the same neighbor list for every direction.
func all4(ids ...int) [4][]int {
	return [4][]int{ids, ids, ids, ids}
}

func TestAddRuleNormalizes(t *testing.T) {
	rs := NewRuleset[int]()
	require.NoError(t, rs.AddRule(1, 5, [4][]int{{3, 1, 3}, nil, {2}, {2, 2}}))

	rule, err := rs.GetRule(1)
	require.NoError(t, err)
	assert.Equal(t, 5, rule.Weight())
	assert.Equal(t, []int{1, 3}, rule.AtDirection(North))
	assert.Empty(t, rule.AtDirection(East))
	assert.Equal(t, []int{2}, rule.AtDirection(South))
	assert.Equal(t, []int{2}, rule.AtDirection(West))
	assert.True(t, rule.Allows(North, 3))
	assert.False(t, rule.Allows(North, 2))
}

func TestAddRuleRejectsWeight(t *testing.T) {
	rs := NewRuleset[int]()
	for _, weight := range []int{0, -3} {
		err := rs.AddRule(1, weight, all4(1))
		assert.ErrorIs(t, err, ErrConfiguration, "weight %d", weight)
	}
	assert.Equal(t, 0, rs.Len())
}

func TestGetRuleUnknown(t *testing.T) {
	rs := NewRuleset[int]()
	require.NoError(t, rs.AddRule(0, 1, all4(0)))

	_, err := rs.GetRule(42)
	require.ErrorIs(t, err, ErrUnknownTile)

	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, 42, lookupErr.ID)
}

func TestAllRulesSorted(t *testing.T) {
	rs := NewRuleset[int]()
	for _, id := range []int{20, 0, 32, 19} {
		require.NoError(t, rs.AddRule(id, 1, all4(0, 19, 20, 32)))
	}
	assert.Equal(t, []int{0, 19, 20, 32}, rs.AllRules())
	assert.True(t, rs.Has(19))
	assert.False(t, rs.Has(21))
}

func TestPickRuleRestrictsToCandidates(t *testing.T) {
	rs := NewRuleset[int]()
	require.NoError(t, rs.AddRule(1, 1, all4(1, 2, 3)))
	require.NoError(t, rs.AddRule(2, 1000, all4(1, 2, 3)))
	require.NoError(t, rs.AddRule(3, 9, all4(1, 2, 3)))

	rng := rand.New(rand.NewSource(7))
	counts := map[int]int{}
	const trials = 5000
	for i := 0; i < trials; i++ {
		id, err := rs.PickRule(rng, []int{1, 3})
		require.NoError(t, err)
		counts[id]++
	}

	assert.Zero(t, counts[2], "picked an id outside the candidate set")
	share := float64(counts[3]) / trials
	assert.InDelta(t, 0.9, share, 0.03, "weight 9 vs 1 should win about 90%% of picks")
}

func TestPickRuleErrors(t *testing.T) {
	rs := NewRuleset[int]()
	require.NoError(t, rs.AddRule(1, 1, all4(1)))
	rng := rand.New(rand.NewSource(1))

	_, err := rs.PickRule(rng, nil)
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = rs.PickRule(rng, []int{1, 8})
	assert.ErrorIs(t, err, ErrUnknownTile)
}

func TestPickRuleDeterministic(t *testing.T) {
	rs := NewRuleset[int]()
	require.NoError(t, rs.AddRule(1, 3, all4(1, 2)))
	require.NoError(t, rs.AddRule(2, 5, all4(1, 2)))

	rng1 := rand.New(rand.NewSource(12345))
	rng2 := rand.New(rand.NewSource(12345))
	for i := 0; i < 20; i++ {
		a, _ := rs.PickRule(rng1, []int{1, 2})
		b, _ := rs.PickRule(rng2, []int{1, 2})
		require.Equal(t, a, b, "pick %d", i)
	}
}

func TestValidateReciprocal(t *testing.T) {
	rs := NewRuleset[int]()
	// Grass and water never touch; sand sits between them.
	require.NoError(t, rs.AddRule(0, 10, all4(0, 1)))
	require.NoError(t, rs.AddRule(1, 2, all4(0, 1, 2)))
	require.NoError(t, rs.AddRule(2, 10, all4(1, 2)))
	assert.NoError(t, rs.Validate())
}

func TestValidateMissingReverse(t *testing.T) {
	rs := NewRuleset[int]()
	// 5 accepts 6 to its north, but 6 does not accept 5 to its south.
	require.NoError(t, rs.AddRule(5, 1, all4(5, 6)))
	require.NoError(t, rs.AddRule(6, 1, [4][]int{{5, 6}, {5, 6}, {6}, {5, 6}}))

	err := rs.Validate()
	require.ErrorIs(t, err, ErrConfiguration)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 5, cfgErr.ID)
	assert.Equal(t, 6, cfgErr.Neighbor)
	assert.Equal(t, North, cfgErr.Direction)
	assert.Contains(t, err.Error(), "5 allows 6 to the north")
	assert.Contains(t, err.Error(), "to the south")
}

func TestValidateUnknownNeighbor(t *testing.T) {
	rs := NewRuleset[int]()
	require.NoError(t, rs.AddRule(1, 1, [4][]int{{1}, {1, 4}, {1}, {1}}))

	err := rs.Validate()
	require.ErrorIs(t, err, ErrConfiguration)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 4, cfgErr.Neighbor)
	assert.Equal(t, East, cfgErr.Direction)
}

func TestDirectionOpposite(t *testing.T) {
	assert.Equal(t, South, North.Opposite())
	assert.Equal(t, West, East.Opposite())
	assert.Equal(t, North, South.Opposite())
	assert.Equal(t, East, West.Opposite())
	for _, d := range Directions {
		assert.Equal(t, d, d.Opposite().Opposite())
	}
}

func TestDirectionBetween(t *testing.T) {
	tests := []struct {
		name                   string
		fromX, fromY, toX, toY int
		height, width          int
		wrap                   bool
		want                   Direction
		ok                     bool
	}{
		{"north", 2, 2, 2, 1, 5, 5, false, North, true},
		{"east", 2, 2, 3, 2, 5, 5, false, East, true},
		{"south", 2, 2, 2, 3, 5, 5, false, South, true},
		{"west", 2, 2, 1, 2, 5, 5, false, West, true},
		{"east wraps to column 0", 2, 0, 0, 0, 1, 3, true, East, true},
		{"west wraps to last column", 0, 0, 2, 0, 1, 3, true, West, true},
		{"north wraps to last row", 0, 0, 0, 9, 10, 10, true, North, true},
		{"no wrap far cell", 2, 0, 0, 0, 1, 3, false, North, false},
		{"diagonal", 1, 1, 2, 2, 5, 5, false, North, false},
		{"same cell", 1, 1, 1, 1, 5, 5, true, North, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DirectionBetween(tt.fromX, tt.fromY, tt.toX, tt.toY, tt.height, tt.width, tt.wrap)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
