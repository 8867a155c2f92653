// Package sorting orders a node's members so that the bands leaving it cross
// as little as possible.
//
// The conflict resolver is a greedy heuristic, not an optimal crossing
// minimisation: elements shared by two bands are laid out adjacently and
// between the two bands' remaining elements. [Crossings] measures the result.
package sorting

import (
	"fmt"
	"slices"
)

// Mode selects how a node orders its members.
type Mode int

const (
	// ByProbability orders members by descending membership score.
	ByProbability Mode = iota
	// ByBand orders members by the band conflict resolver.
	ByBand
)

// String returns the mode name used in configuration.
func (m Mode) String() string {
	switch m {
	case ByProbability:
		return "probability"
	case ByBand:
		return "band"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses a mode name produced by [Mode.String].
func ParseMode(s string) (Mode, error) {
	switch s {
	case "probability", "":
		return ByProbability, nil
	case "band":
		return ByBand, nil
	}
	return 0, fmt.Errorf("unknown sorting mode %q", s)
}

// conflict is the intersection of two groups.
type conflict struct {
	first, second []int
	shared        []int
}

// Resolve returns a deterministic element order for overlapping groups.
//
// Every unordered pair of groups (i < j) contributes a conflict, their
// intersection in group i's order. Conflicts are processed by ascending size,
// ties in pair order. Each conflict appends the first group without the
// conflict, then the conflict, then the second group; elements already placed
// are skipped.
func Resolve(groups [][]int) []int {
	var conflicts []conflict
	for i := range groups {
		for j := i + 1; j < len(groups); j++ {
			conflicts = append(conflicts, conflict{
				first:  groups[i],
				second: groups[j],
				shared: intersect(groups[i], groups[j]),
			})
		}
	}
	slices.SortStableFunc(conflicts, func(a, b conflict) int {
		return len(a.shared) - len(b.shared)
	})

	var out orderedSet
	if len(groups) == 1 {
		out.add(groups[0]...)
	}
	for _, c := range conflicts {
		for _, e := range c.first {
			if !slices.Contains(c.shared, e) {
				out.add(e)
			}
		}
		out.add(c.shared...)
		out.add(c.second...)
	}
	return out.items
}

// Order returns all reordered by the resolver: resolved members of all first,
// then the remaining members of all in their previous order.
func Order(all []int, groups [][]int) []int {
	member := make(map[int]bool, len(all))
	for _, e := range all {
		member[e] = true
	}
	var out orderedSet
	for _, e := range Resolve(groups) {
		if member[e] {
			out.add(e)
		}
	}
	out.add(all...)
	return out.items
}

// ByScore returns indices ordered by descending score; equal scores keep
// their input order. scores is indexed like indices.
func ByScore(indices []int, scores []float64) []int {
	idx := make([]int, len(indices))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case scores[a] > scores[b]:
			return -1
		case scores[a] < scores[b]:
			return 1
		}
		return 0
	})
	out := make([]int, len(indices))
	for i, k := range idx {
		out[i] = indices[k]
	}
	return out
}

type orderedSet struct {
	seen  map[int]bool
	items []int
}

func (s *orderedSet) add(es ...int) {
	if s.seen == nil {
		s.seen = make(map[int]bool)
	}
	for _, e := range es {
		if !s.seen[e] {
			s.seen[e] = true
			s.items = append(s.items, e)
		}
	}
}

func intersect(a, b []int) []int {
	var out []int
	for _, e := range a {
		if slices.Contains(b, e) && !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
