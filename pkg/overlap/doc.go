// Package overlap maintains the shared-element model between bicluster nodes.
//
// Every node carries two independent ordered index sequences, one per [Axis]:
// the dimension members and the record members of its cluster. Two nodes
// overlap on an axis when their sequences share elements. The [Model] stores
// nodes in an arena addressed by integer ID and keeps pairwise overlaps in a
// side table keyed by the unordered node [Pair], so there are no references
// from nodes to edges or back.
//
// # Invariants
//
// The model keeps two invariants after every mutation:
//
//   - Symmetry: Overlap(a, b, axis) and Overlap(b, a, axis) contain the same
//     elements. Each list is ordered by the first argument's sequence.
//   - Conservation: TotalOverlap(n, axis) equals the sum of the overlap sizes
//     over all edges incident to n on that axis.
//
// # Lazy Edges
//
// An [Edge] is created the first time two nodes are found to share elements.
// Edges are never removed while both endpoints exist; they only become empty.
//
// # Usage
//
//	m := overlap.NewModel()
//	a := m.Add("cluster 0", overlap.Normal, dims0, recs0)
//	b := m.Add("cluster 1", overlap.Normal, dims1, recs1)
//	shared := m.Overlap(a.ID, b.ID, overlap.Dim)
//
// Updating a node's membership recomputes every affected edge:
//
//	m.SetIndices(a.ID, overlap.Rec, newRecs)
package overlap
