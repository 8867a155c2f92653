// Package pkg provides the core libraries for bicluster visualization.
//
// # Overview
//
// A biclustering assigns every cluster a subset of records (rows) and a subset
// of dimensions (columns). Clusters that share records or dimensions overlap.
// The view draws each cluster as a node, places the nodes with a force
// simulation that pulls overlapping clusters together, and connects them with
// bands whose width is the number of shared elements.
//
// # Architecture
//
// The data flow:
//
//	Dataset (x, l, z matrices)
//	         ↓
//	    [source] package (threshold scan → members per cluster)
//	         ↓
//	    [overlap] package (shared elements per node pair)
//	         ↓
//	    [scene] package (focus, zoom, fades, events)
//	       ↙     ↘
//	[layout]    [band]   (forces / ribbon geometry)
//	         ↓
//	    [render] package (SVG, JSON, DOT outputs)
//
// # Quick Start
//
// Simulate a dataset and render it:
//
//	import (
//	    "context"
//	    "github.com/sgratzl/org.caleydo.view.bicluster/pkg/io"
//	    "github.com/sgratzl/org.caleydo.view.bicluster/pkg/pipeline"
//	)
//
//	ds, _ := io.ImportDataset("data.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), ds, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// # Main Packages
//
// ## Domain Logic
//
// [overlap] - Nodes, their dimension and record members, and the overlap
// edges between them. Edges exist only while a pair shares elements.
//
// [distance] - Breadth-first graph distance from the focused node.
//
// [band] - Ribbon outlines between two overlapping nodes, split where the
// shared elements are not contiguous.
//
// [sorting] - Member orderings, including the band conflict resolver.
//
// [layout] - The force-directed engine: repulsion, attraction, border
// forces, collision handling and bring-back of escaped nodes.
//
// [zoom] - Per-node zoom modes, zoom factors and opacity fades.
//
// [scene] - The scheduler combining all of the above into frames.
//
// ## Data
//
// [source] - Datasets and the threshold scan that turns probabilities into
// cluster members.
//
// [io] - JSON and CSV import, frame export.
//
// ## Output and Infrastructure
//
// [render] - SVG and JSON sinks, DOT overlap graphs rendered with Graphviz.
//
// [pipeline] - load → simulate → render with caching.
//
// [cache] - File, Redis and MongoDB caches for frames and outputs.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Error codes shared by the CLI and the HTTP server.
package pkg
