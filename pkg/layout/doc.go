// Package layout positions bicluster nodes with a force-directed simulation.
//
// The [Engine] is advanced once per rendered frame with the elapsed time. The
// first frame with a non-empty node set places nodes on a grid; every later
// frame runs the steady-state pass:
//
//  1. Rescale positions if the viewport shrank
//  2. Pin the focused node at the viewport centre
//  3. Relocate nodes that left the frame (or were never placed) to a random
//     in-bounds point
//  4. Push apart overlapping nodes by a fixed offset
//  5. Run ⌊IterationFactor/Δt⌋+1 force integration steps
//
// # Forces
//
// Each integration step sums three forces per node:
//
//   - Repulsion from every other node and from the toolbar obstacle, falling
//     off with the cube of the gap between the two bodies
//   - Attraction towards every node it shares elements with, proportional to
//     the number of shared elements and normalised by the system's total
//     overlap
//   - Border repulsion exp(BorderForceFactor / gap) from all four viewport edges
//
// The summed force is halved until it is no longer than ForceCap, scaled by
// Damping and applied, except to nodes the user pins (dragged, hovered or
// focused).
//
// # UI State
//
// The single focused, dragged and hovered node are held by a [Context] owned
// by the caller and passed into every pass. Nothing in this package keeps
// global state.
package layout
