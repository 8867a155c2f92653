package source

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"
)

// RequiredMatrices is the number of correlated matrices needed to build clusters.
const RequiredMatrices = 3

// Score is one element's membership probability in a cluster.
type Score struct {
	Index       int     `json:"index"`
	Probability float64 `json:"probability"`
}

// Vector holds a probability per element, indexed by element id.
type Vector []float64

// Filter returns the elements whose absolute probability reaches threshold,
// strongest first. Ties keep ascending element order. A topN <= 0 keeps
// every qualifying element. NaN entries never qualify.
func (v Vector) Filter(threshold float64, topN int) []Score {
	var out []Score
	for i, p := range v {
		if math.Abs(p) >= threshold {
			out = append(out, Score{Index: i, Probability: p})
		}
	}
	slices.SortStableFunc(out, func(a, b Score) int {
		return cmp.Compare(math.Abs(b.Probability), math.Abs(a.Probability))
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Indices returns the element ids of scores in order.
func Indices(scores []Score) []int {
	out := make([]int, len(scores))
	for i, s := range scores {
		out[i] = s.Index
	}
	return out
}

// Source yields per-cluster probability vectors.
type Source interface {
	Clusters() int
	Vector(cluster int, axis overlap.Axis) Vector
}

// Matrix is a dense row-major matrix.
type Matrix struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// NewMatrix wraps data as a rows×cols matrix.
func NewMatrix(rows, cols int, data []float64) (*Matrix, error) {
	m := &Matrix{Rows: rows, Cols: cols, Data: data}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that the shape matches the data length.
func (m *Matrix) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "negative matrix shape %dx%d", m.Rows, m.Cols)
	}
	if len(m.Data) != m.Rows*m.Cols {
		return errors.New(errors.ErrCodeInvalidDataset,
			"matrix %dx%d needs %d values, got %d", m.Rows, m.Cols, m.Rows*m.Cols, len(m.Data))
	}
	return nil
}

// At returns the value at row r, column c.
func (m *Matrix) At(r, c int) float64 { return m.Data[r*m.Cols+c] }

// Column copies column c.
func (m *Matrix) Column(c int) Vector {
	v := make(Vector, m.Rows)
	for r := range v {
		v[r] = m.At(r, c)
	}
	return v
}

// External is a cluster supplied from outside the factorisation, for example
// an annotation grouping. Its members are given directly.
type External struct {
	Label string `json:"label"`
	Dims  []int  `json:"dims,omitempty"`
	Recs  []int  `json:"recs,omitempty"`
}

// Dataset is a bicluster factorisation plus labels and external clusters.
type Dataset struct {
	Name          string     `json:"name,omitempty"`
	X             *Matrix    `json:"x,omitempty"`
	L             *Matrix    `json:"l,omitempty"`
	Z             *Matrix    `json:"z,omitempty"`
	ClusterLabels []string   `json:"clusterLabels,omitempty"`
	DimLabels     []string   `json:"dimLabels,omitempty"`
	RecLabels     []string   `json:"recLabels,omitempty"`
	Externals     []External `json:"externals,omitempty"`
}

var _ Source = (*Dataset)(nil)

// Matrices counts the matrices present.
func (d *Dataset) Matrices() int {
	n := 0
	for _, m := range []*Matrix{d.X, d.L, d.Z} {
		if m != nil {
			n++
		}
	}
	return n
}

// Validate checks that the three matrices are present and correlated:
// L shares X's records, Z shares X's dimensions, and L and Z have the same
// number of clusters.
func (d *Dataset) Validate() error {
	if err := Available(d.Matrices()); err != nil {
		return err
	}
	for _, m := range []struct {
		name string
		m    *Matrix
	}{{"x", d.X}, {"l", d.L}, {"z", d.Z}} {
		if err := m.m.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "matrix %s", m.name)
		}
	}
	switch {
	case d.L.Rows != d.X.Rows:
		return errors.New(errors.ErrCodeInvalidDataset, "l has %d records, x has %d", d.L.Rows, d.X.Rows)
	case d.Z.Rows != d.X.Cols:
		return errors.New(errors.ErrCodeInvalidDataset, "z has %d dimensions, x has %d", d.Z.Rows, d.X.Cols)
	case d.L.Cols != d.Z.Cols:
		return errors.New(errors.ErrCodeInvalidDataset, "l has %d clusters, z has %d", d.L.Cols, d.Z.Cols)
	}
	for _, e := range d.Externals {
		if !inRange(e.Dims, d.X.Cols) || !inRange(e.Recs, d.X.Rows) {
			return errors.New(errors.ErrCodeInvalidDataset, "external cluster %q references unknown elements", e.Label)
		}
	}
	return nil
}

// Clusters returns the number of clusters.
func (d *Dataset) Clusters() int {
	if d.L == nil {
		return 0
	}
	return d.L.Cols
}

// Vector returns cluster c's dimension scores (a column of Z) or record
// loadings (a column of L).
func (d *Dataset) Vector(c int, axis overlap.Axis) Vector {
	if axis == overlap.Dim {
		return d.Z.Column(c)
	}
	return d.L.Column(c)
}

// ClusterLabel returns the label of cluster c, falling back to its number.
func (d *Dataset) ClusterLabel(c int) string {
	if c >= 0 && c < len(d.ClusterLabels) && d.ClusterLabels[c] != "" {
		return d.ClusterLabels[c]
	}
	return "bicluster" + strconv.Itoa(c+1)
}

// Available returns a DATA_UNAVAILABLE error when fewer than the required
// matrices are present. Callers show an empty scene in that case.
func Available(n int) error {
	if n < RequiredMatrices {
		return errors.New(errors.ErrCodeDataUnavailable,
			"need %d correlated matrices, have %d", RequiredMatrices, n)
	}
	return nil
}

func inRange(ids []int, n int) bool {
	for _, id := range ids {
		if id < 0 || id >= n {
			return false
		}
	}
	return true
}
