// Package band computes the ribbon geometry that connects two overlapping
// clusters on one axis.
//
// # Runs
//
// An overlap is first partitioned into runs: maximal groups of shared
// elements that sit next to each other in a node's ordered sequence. Runs are
// positional, not numeric: in the sequence [5 1 9 2] the overlap {5, 1, 2}
// forms the runs [5 1] and [2].
//
// # Pieces
//
// Crossing the runs of both endpoints yields pieces, each contiguous on both
// sides. A piece that covers a whole run on both endpoints becomes a
// non-split ribbon (the simplified display). Pieces that cover only part of a
// run on either side are split ribbons, drawn when the band is hovered.
// Every overlapping element additionally gets its own [Spline] for picking.
//
// # Anchoring
//
// Dimension bands attach to the top or bottom edge of a node, record bands to
// its left or right edge, whichever faces the other endpoint. Each element
// occupies node extent / element count along that edge.
//
// # Stubs
//
// Translucent bands that cross many others are drawn as stubs: [Stubify]
// keeps the vertices next to both nodes opaque, fades the alpha towards the
// middle and cuts the strip where the alpha first reaches zero.
package band
