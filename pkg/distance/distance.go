// Package distance answers hop-count queries on the overlap graph.
//
// Two nodes are adjacent when they share at least one element on an enabled
// axis. Distances are unweighted hop counts and every search is bounded by a
// caller-supplied maximum, so queries stay cheap for the small graphs (dozens
// of clusters) the layout deals with.
package distance

import "github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"

// Graph is the adjacency view the search needs. *overlap.Model satisfies it.
type Graph interface {
	Neighbors(id int, axes overlap.Axes) []int
}

// Unbounded returns the sentinel MinDistance reports when no path of at most
// maxDistance hops exists. It is never a real distance.
func Unbounded(maxDistance int) int { return maxDistance + 1 }

// MinDistance returns the number of hops between a and b over edges with a
// non-empty overlap on one of the enabled axes.
//
// # Bounds
//
// The breadth-first search stops expanding at depth maxDistance. If b is not
// reached by then, MinDistance returns [Unbounded](maxDistance); callers must
// treat that as "not connected within range". MinDistance(a, a) is always 0.
// A negative maxDistance is treated as 0.
//
// # Performance
//
// Work is O(maxDistance × degree) in the visited frontier.
func MinDistance(g Graph, a, b, maxDistance int, axes overlap.Axes) int {
	if a == b {
		return 0
	}
	if maxDistance < 0 {
		maxDistance = 0
	}
	depth := map[int]int{a: 0}
	queue := []int{a}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		d := depth[curr]
		if d >= maxDistance {
			continue
		}
		for _, next := range g.Neighbors(curr, axes) {
			if _, seen := depth[next]; seen {
				continue
			}
			if next == b {
				return d + 1
			}
			depth[next] = d + 1
			queue = append(queue, next)
		}
	}
	return Unbounded(maxDistance)
}

// Within reports whether b is at most maxDistance hops from a.
func Within(g Graph, a, b, maxDistance int, axes overlap.Axes) bool {
	return MinDistance(g, a, b, maxDistance, axes) <= maxDistance
}

// NearEnough reports whether the band between first and second should be shown
// while focus is the focused node. Both endpoints must lie within maxDistance
// hops of focus; the second endpoint is only searched for when the first one
// sits exactly on the boundary.
func NearEnough(g Graph, focus, first, second, maxDistance int, axes overlap.Axes) bool {
	d := MinDistance(g, focus, first, maxDistance, axes)
	if d > maxDistance {
		return false
	}
	if d < maxDistance {
		return true
	}
	return Within(g, focus, second, maxDistance, axes)
}
