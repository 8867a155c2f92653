// Package io reads biclustering datasets and writes simulated frames.
//
// # Dataset JSON
//
// Matrices are written as arrays of rows. Any of x, l and z may be absent;
// the scene reports DATA_UNAVAILABLE when fewer than three are present.
//
//	{
//	  "name": "demo",
//	  "x": [[1.2, 0.4], [0.1, 3.3], [2.0, 0.0]],
//	  "l": [[0.9], [0.0], [0.4]],
//	  "z": [[5.1], [0.2]],
//	  "clusterLabels": ["bicluster1"],
//	  "dimLabels": ["gene A", "gene B"],
//	  "recLabels": ["s1", "s2", "s3"],
//	  "externals": [{"label": "pathway", "dims": [0, 1]}]
//	}
//
// x is records by dimensions, l is records by clusters (record loadings)
// and z is dimensions by clusters (dimension scores).
//
// # CSV directories
//
// [ImportDataset] also accepts a directory holding x.csv, l.csv and z.csv.
// A first row that does not parse as numbers is taken as a header: for x.csv
// it names the dimensions, for l.csv the clusters.
//
// # Frames
//
// [WriteFrame] and [ExportFrame] write a [scene.Frame] as indented JSON,
// and [ReadFrame] reads it back for cached layouts.
package io
