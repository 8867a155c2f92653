// Package zoom tracks the per-node zoom mode, zoom factors, visibility and
// opacity that the scene feeds into the layout engine.
//
// Every node carries a [State]. It is in one of three modes:
//
//   - Overview: nothing is focused
//   - Focus: this node is the focused one
//   - FocusNeighbor: another node is focused; the node is force-hidden when it
//     is more than the maximum distance away from it
//
// Each mode keeps its own zoom vector, so zooming a node while it is focused
// does not change its overview size. Zoom factors never drop below [MinZoom].
//
// [Fade] animates a node's opacity between [HighOpacity] and [LowOpacity]
// as the user hovers or searches.
package zoom
