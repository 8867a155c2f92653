package overlap

import (
	"fmt"

	"github.com/google/uuid"
)

// Axis selects one of the two independent index spaces a cluster spans.
type Axis int

const (
	// Dim is the dimension axis (columns of the data table).
	Dim Axis = iota
	// Rec is the record axis (rows of the data table).
	Rec
)

// AllAxes lists both axes in a fixed order.
var AllAxes = [...]Axis{Dim, Rec}

// String returns "dim" or "rec".
func (a Axis) String() string {
	switch a {
	case Dim:
		return "dim"
	case Rec:
		return "rec"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Axes is a set of enabled axes used to filter graph traversal.
type Axes uint8

const (
	DimAxis  Axes = 1 << iota // dimension axis enabled
	RecAxis                   // record axis enabled
	BothAxes = DimAxis | RecAxis
)

// Has reports whether axis a is enabled.
func (s Axes) Has(a Axis) bool { return s&(1<<uint(a)) != 0 }

// AxesOf builds an axis set from the two band toggles.
func AxesOf(dim, rec bool) Axes {
	var s Axes
	if dim {
		s |= DimAxis
	}
	if rec {
		s |= RecAxis
	}
	return s
}

// Kind distinguishes ordinary cluster nodes from externally supplied ones.
type Kind int

const (
	// Normal nodes are backed by a bicluster from the probability matrices.
	Normal Kind = iota
	// SpecialExternal nodes carry an arbitrary element set contributed from
	// outside the clustering (for example a user selection). They are only
	// shown while they overlap some visible node.
	SpecialExternal
)

func (k Kind) String() string {
	if k == SpecialExternal {
		return "external"
	}
	return "normal"
}

// Element is the capability set the layout and renderers need from a node.
type Element interface {
	DimIndices() []int
	RecIndices() []int
	ShouldBeVisible() bool
	SetLabel(label string)
}

// Node is one bicluster in the arena.
type Node struct {
	ID      int
	UUID    uuid.UUID
	Label   string
	Kind    Kind
	Cluster int // source cluster index, -1 for external nodes

	Hidden bool // hidden by the user
	Locked bool // ignores global threshold changes

	indices [2][]int
	total   [2]int
}

var _ Element = (*Node)(nil)

// Indices returns the node's ordered member sequence on axis a.
// The returned slice must not be modified.
func (n *Node) Indices(a Axis) []int { return n.indices[a] }

// DimIndices returns the dimension members.
func (n *Node) DimIndices() []int { return n.indices[Dim] }

// RecIndices returns the record members.
func (n *Node) RecIndices() []int { return n.indices[Rec] }

// SetLabel renames the node.
func (n *Node) SetLabel(label string) { n.Label = label }

// TotalOverlap returns the cached sum of overlap sizes over all incident edges.
func (n *Node) TotalOverlap(a Axis) int { return n.total[a] }

// ElementCount is the number of members on axis a used for sizing. External
// nodes always report at least one element so that they keep a drawable size.
func (n *Node) ElementCount(a Axis) int {
	c := len(n.indices[a])
	if n.Kind == SpecialExternal && c < 1 {
		return 1
	}
	return c
}

// ShouldBeVisible reports whether the node has content worth drawing. Normal
// nodes need members on both axes; external nodes need members on either.
// Relative size culling and focus distance are applied by the zoom package.
func (n *Node) ShouldBeVisible() bool {
	if n.Hidden {
		return false
	}
	if n.Kind == SpecialExternal {
		return len(n.indices[Dim]) > 0 || len(n.indices[Rec]) > 0
	}
	return len(n.indices[Dim]) > 0 && len(n.indices[Rec]) > 0
}

func (n *Node) String() string {
	return fmt.Sprintf("%s#%d(%d×%d)", n.Label, n.ID, len(n.indices[Dim]), len(n.indices[Rec]))
}
