package overlap

import (
	"errors"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

// ErrUnknownNode is returned when an operation references an ID that is not in
// the arena (never added or already removed).
var ErrUnknownNode = errors.New("unknown node")

// Pair is an unordered node pair stored with A < B.
type Pair struct {
	A, B int
}

// MakePair returns the canonical pair for a and b.
func MakePair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Other returns the endpoint opposite id.
func (p Pair) Other(id int) int {
	if p.A == id {
		return p.B
	}
	return p.A
}

// Edge holds the current overlap between the two nodes of a pair. Overlap lists
// are ordered by node A's sequence.
type Edge struct {
	Pair
	overlap [2][]int
}

// Overlap returns the shared elements on axis a in node A's order.
func (e *Edge) Overlap(a Axis) []int { return e.overlap[a] }

// Size returns the number of shared elements on axis a.
func (e *Edge) Size(a Axis) int { return len(e.overlap[a]) }

// Empty reports whether the edge has no overlap on any enabled axis.
func (e *Edge) Empty(axes Axes) bool {
	for _, a := range AllAxes {
		if axes.Has(a) && len(e.overlap[a]) > 0 {
			return false
		}
	}
	return true
}

// Model is the node arena plus the edge side table.
//
// Model is not safe for concurrent use; a single owner (the scene scheduler)
// mutates it between frames.
type Model struct {
	nodes    []*Node
	edges    map[Pair]*Edge
	incident map[int][]Pair
	ns       uuid.UUID
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		edges:    make(map[Pair]*Edge),
		incident: make(map[int][]Pair),
	}
}

// SetNamespace sets the namespace node UUIDs are derived from. A node's UUID
// is a SHA-1 UUID of its ID and label within the namespace, so reloading the
// same dataset reproduces the same identities.
func (m *Model) SetNamespace(name string) {
	m.ns = uuid.NewSHA1(uuid.NameSpaceURL, []byte("bicluster:"+name))
}

// Add inserts a node and computes its overlap with every existing node.
func (m *Model) Add(label string, kind Kind, dim, rec []int) *Node {
	n := &Node{
		ID:      len(m.nodes),
		UUID:    uuid.NewSHA1(m.ns, []byte(strconv.Itoa(len(m.nodes))+"/"+label)),
		Label:   label,
		Kind:    kind,
		Cluster: -1,
	}
	n.indices[Dim] = slices.Clone(dim)
	n.indices[Rec] = slices.Clone(rec)
	m.nodes = append(m.nodes, n)
	for _, o := range m.nodes[:n.ID] {
		if o != nil {
			m.Recompute(n.ID, o.ID)
		}
	}
	return n
}

// Node returns the node with the given ID.
func (m *Model) Node(id int) (*Node, bool) {
	if id < 0 || id >= len(m.nodes) || m.nodes[id] == nil {
		return nil, false
	}
	return m.nodes[id], true
}

// Nodes returns all live nodes ordered by ID.
func (m *Model) Nodes() []*Node {
	out := make([]*Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of live nodes.
func (m *Model) Len() int {
	c := 0
	for _, n := range m.nodes {
		if n != nil {
			c++
		}
	}
	return c
}

// SetIndices replaces a node's sequence on one axis and recomputes all of its
// edges, including pairs that had no edge yet.
func (m *Model) SetIndices(id int, a Axis, seq []int) error {
	n, ok := m.Node(id)
	if !ok {
		return ErrUnknownNode
	}
	n.indices[a] = slices.Clone(seq)
	for _, o := range m.nodes {
		if o != nil && o.ID != id {
			m.Recompute(id, o.ID)
		}
	}
	return nil
}

// Recompute refreshes the overlap between a and b on both axes and returns it
// in a's order. The edge is created lazily; both nodes' totals are adjusted by
// the difference to the previous overlap. An empty result is valid.
func (m *Model) Recompute(a, b int) (dim, rec []int) {
	na, okA := m.Node(a)
	nb, okB := m.Node(b)
	if !okA || !okB || a == b {
		return nil, nil
	}
	p := MakePair(a, b)
	first, second := na, nb
	if first.ID != p.A {
		first, second = second, first
	}
	var next [2][]int
	for _, ax := range AllAxes {
		next[ax] = Intersect(first.indices[ax], second.indices[ax])
	}

	e, ok := m.edges[p]
	if !ok {
		if len(next[Dim]) == 0 && len(next[Rec]) == 0 {
			return nil, nil
		}
		e = &Edge{Pair: p}
		m.edges[p] = e
		m.incident[p.A] = append(m.incident[p.A], p)
		m.incident[p.B] = append(m.incident[p.B], p)
	}
	for _, ax := range AllAxes {
		delta := len(next[ax]) - len(e.overlap[ax])
		first.total[ax] += delta
		second.total[ax] += delta
		e.overlap[ax] = next[ax]
	}
	return m.Overlap(a, b, Dim), m.Overlap(a, b, Rec)
}

// Overlap returns the elements shared by a and b on axis ax, ordered by a's
// sequence. It returns nil when there is no edge.
func (m *Model) Overlap(a, b int, ax Axis) []int {
	e, ok := m.edges[MakePair(a, b)]
	if !ok || len(e.overlap[ax]) == 0 {
		return nil
	}
	if e.A == a {
		return e.overlap[ax]
	}
	na, _ := m.Node(a)
	return Intersect(na.indices[ax], e.overlap[ax])
}

// Edge returns the edge between a and b, if one was ever created.
func (m *Model) Edge(a, b int) (*Edge, bool) {
	e, ok := m.edges[MakePair(a, b)]
	return e, ok
}

// Edges returns all edges ordered by pair.
func (m *Model) Edges() []*Edge {
	out := make([]*Edge, 0, len(m.edges))
	for _, e := range m.edges {
		out = append(out, e)
	}
	slices.SortFunc(out, func(x, y *Edge) int {
		if x.A != y.A {
			return x.A - y.A
		}
		return x.B - y.B
	})
	return out
}

// IncidentEdges returns the edges touching id in creation order.
func (m *Model) IncidentEdges(id int) []*Edge {
	pairs := m.incident[id]
	out := make([]*Edge, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, m.edges[p])
	}
	return out
}

// Neighbors returns the IDs connected to id by a non-empty overlap on one of
// the enabled axes, in ascending order.
func (m *Model) Neighbors(id int, axes Axes) []int {
	var out []int
	for _, p := range m.incident[id] {
		if !m.edges[p].Empty(axes) {
			out = append(out, p.Other(id))
		}
	}
	slices.Sort(out)
	return out
}

// SharedCount returns the number of shared elements between a and b summed
// over both axes.
func (m *Model) SharedCount(a, b int) int {
	e, ok := m.edges[MakePair(a, b)]
	if !ok {
		return 0
	}
	return len(e.overlap[Dim]) + len(e.overlap[Rec])
}

// TotalOverlap returns the cached total for id on axis ax.
func (m *Model) TotalOverlap(id int, ax Axis) int {
	n, ok := m.Node(id)
	if !ok {
		return 0
	}
	return n.total[ax]
}

// GrandTotal returns the sum of both axis totals over all nodes.
func (m *Model) GrandTotal() int {
	t := 0
	for _, n := range m.nodes {
		if n != nil {
			t += n.total[Dim] + n.total[Rec]
		}
	}
	return t
}

// Biggest returns the largest element count on axis ax among normal nodes.
func (m *Model) Biggest(ax Axis) int {
	b := 0
	for _, n := range m.nodes {
		if n != nil && n.Kind == Normal && len(n.indices[ax]) > b {
			b = len(n.indices[ax])
		}
	}
	return b
}

// Relationship scores how strongly a and b are related: the shared elements
// over the union of elements, summed over both axes. It is 0 for unrelated
// nodes and 1 for identical membership.
func (m *Model) Relationship(a, b int) float64 {
	na, okA := m.Node(a)
	nb, okB := m.Node(b)
	if !okA || !okB {
		return 0
	}
	shared, union := 0, 0
	for _, ax := range AllAxes {
		s := len(m.Overlap(a, b, ax))
		shared += s
		union += len(na.indices[ax]) + len(nb.indices[ax]) - s
	}
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

// Remove clears the node's membership, settles its edges to empty and drops it
// from the arena. IDs are not reused.
func (m *Model) Remove(id int) error {
	n, ok := m.Node(id)
	if !ok {
		return ErrUnknownNode
	}
	n.indices = [2][]int{}
	for _, p := range m.incident[id] {
		m.Recompute(p.A, p.B)
		other := p.Other(id)
		m.incident[other] = slices.DeleteFunc(m.incident[other], func(q Pair) bool { return q == p })
		delete(m.edges, p)
	}
	delete(m.incident, id)
	m.nodes[id] = nil
	return nil
}

// Intersect returns the members of first that also occur in second, in first's
// order. Duplicates in first are kept once.
func Intersect(first, second []int) []int {
	if len(first) == 0 || len(second) == 0 {
		return nil
	}
	in := make(map[int]struct{}, len(second))
	for _, v := range second {
		in[v] = struct{}{}
	}
	var out []int
	for _, v := range first {
		if _, ok := in[v]; ok {
			out = append(out, v)
			delete(in, v)
		}
	}
	return out
}
