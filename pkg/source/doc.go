// Package source provides the cluster membership data the scene is built from.
//
// A bicluster factorisation consists of three correlated matrices:
//
//   - X: the data matrix, records × dimensions
//   - L: record loadings, records × clusters
//   - Z: dimension scores, dimensions × clusters
//
// Column c of L and Z holds the membership probability of every record and
// every dimension in cluster c. [Vector.Filter] turns such a column into a
// member list by thresholding the absolute probability, optionally capping
// the list to the strongest N members.
//
// # Scanning
//
// [Scanner] filters all clusters in parallel on a bounded worker pool. A
// failing or panicking cluster never stops its siblings: the failure is
// logged, reported through the observability hooks and returned in the
// cluster's [Result], and callers keep that cluster's previous members.
package source
