// Package wfc synthesizes tile grids by wave function collapse: every cell
// starts with the full tile alphabet and is narrowed by adjacency rules until
// one tile remains per cell.
package wfc

import (
	"cmp"
	"math/rand"
	"slices"
)

// Rule holds one tile's selection weight and, for each direction, the sorted
// ids allowed to sit next to it in that direction.
type Rule[T cmp.Ordered] struct {
	weight    int
	adjacency [4][]T
}

// Weight returns the relative selection weight of the tile.
func (r *Rule[T]) Weight() int {
	return r.weight
}

// AtDirection returns the ids allowed as a neighbor in the given direction.
// The slice is shared with the rule and must not be modified.
func (r *Rule[T]) AtDirection(d Direction) []T {
	return r.adjacency[d]
}

// Allows reports whether id may sit next to this tile in direction d.
func (r *Rule[T]) Allows(d Direction, id T) bool {
	_, found := slices.BinarySearch(r.adjacency[d], id)
	return found
}

// Ruleset maps tile ids to their rules. Build it once, validate it, then
// treat it as read-only.
type Ruleset[T cmp.Ordered] struct {
	rules map[T]*Rule[T]
}

// NewRuleset creates an empty ruleset.
func NewRuleset[T cmp.Ordered]() *Ruleset[T] {
	return &Ruleset[T]{rules: make(map[T]*Rule[T])}
}

// AddRule registers id with its weight and per-direction neighbor lists,
// ordered North, East, South, West. Each list is deduplicated and sorted.
// Adding an id twice replaces the earlier rule.
func (rs *Ruleset[T]) AddRule(id T, weight int, adjacency [4][]T) error {
	if weight <= 0 {
		return &ConfigurationError{ID: id, Reason: "weight must be positive"}
	}

	rule := &Rule[T]{weight: weight}
	for _, dir := range Directions {
		rule.adjacency[dir] = normalize(adjacency[dir])
	}
	rs.rules[id] = rule
	return nil
}

// GetRule returns the rule registered for id.
func (rs *Ruleset[T]) GetRule(id T) (*Rule[T], error) {
	rule, ok := rs.rules[id]
	if !ok {
		return nil, &LookupError{ID: id}
	}
	return rule, nil
}

// Has reports whether id is registered.
func (rs *Ruleset[T]) Has(id T) bool {
	_, ok := rs.rules[id]
	return ok
}

// Len returns the number of registered ids.
func (rs *Ruleset[T]) Len() int {
	return len(rs.rules)
}

// AllRules returns every registered id in ascending order.
func (rs *Ruleset[T]) AllRules() []T {
	ids := make([]T, 0, len(rs.rules))
	for id := range rs.rules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// PickRule selects one of candidates with probability proportional to its
// rule weight. It draws exactly one value from rng.
func (rs *Ruleset[T]) PickRule(rng *rand.Rand, candidates []T) (T, error) {
	var zero T
	if len(candidates) == 0 {
		return zero, ErrNoCandidates
	}

	totalWeight := 0
	for _, id := range candidates {
		rule, err := rs.GetRule(id)
		if err != nil {
			return zero, err
		}
		totalWeight += rule.weight
	}

	roll := rng.Intn(totalWeight)

	cumulative := 0
	for _, id := range candidates {
		cumulative += rs.rules[id].weight
		if roll < cumulative {
			return id, nil
		}
	}
	return candidates[len(candidates)-1], nil
}

// Validate checks adjacency reciprocity: whenever a allows b in direction d,
// b must allow a in the opposite direction. Ids, directions and neighbors are
// walked in sorted order and the first violation is returned as a
// *ConfigurationError.
func (rs *Ruleset[T]) Validate() error {
	for _, id := range rs.AllRules() {
		rule := rs.rules[id]
		for _, dir := range Directions {
			for _, neighbor := range rule.adjacency[dir] {
				other, ok := rs.rules[neighbor]
				if !ok {
					return &ConfigurationError{
						ID:        id,
						Neighbor:  neighbor,
						Direction: dir,
						Reason:    "neighbor " + formatID(neighbor) + " to the " + dir.String() + " is not registered",
					}
				}
				if !other.Allows(dir.Opposite(), id) {
					return &ConfigurationError{ID: id, Neighbor: neighbor, Direction: dir}
				}
			}
		}
	}
	return nil
}

// normalize returns a sorted, deduplicated copy of ids.
func normalize[T cmp.Ordered](ids []T) []T {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
