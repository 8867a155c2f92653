// Package sink writes frames as JSON or SVG.
//
// [RenderSVG] draws, back to front: resting band stubs, highlighted ribbons
// and their element splines, then node boxes with labels. Invisible nodes
// and their bands are skipped; opacities come from the frame's fades.
//
//	svg := sink.RenderSVG(frame, sink.WithLabels(), sink.WithBackground("#fff"))
//	data, err := sink.RenderJSON(frame, sink.WithJSONCompact())
package sink
