// Package nodelink draws the overlap graph of a frame as a node-link
// diagram.
//
// Each visible cluster is a box; each edge joins two clusters that share
// elements and is labelled with the shared dimension and record counts.
// Edge weight follows the Jaccard relationship so strongly overlapping
// clusters pull together in the Graphviz layout.
//
//	dot := nodelink.ToDOT(frame, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
