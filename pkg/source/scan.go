package source

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/observability"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"
)

// PoolSize is the number of clusters scanned concurrently.
const PoolSize = 4

// Default thresholds for record loadings and dimension scores.
const (
	DefaultRecThreshold = 0.08
	DefaultDimThreshold = 4.5
)

// Thresholds select cluster members. A TopN of zero means unlimited.
type Thresholds struct {
	Dim     float64 `json:"dimThreshold" toml:"dimThreshold"`
	Rec     float64 `json:"recThreshold" toml:"recThreshold"`
	DimTopN int     `json:"dimTopN" toml:"dimTopN"`
	RecTopN int     `json:"recTopN" toml:"recTopN"`
}

// DefaultThresholds returns the thresholds used when nothing is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{Dim: DefaultDimThreshold, Rec: DefaultRecThreshold}
}

// Validate rejects negative thresholds and limits.
func (t Thresholds) Validate() error {
	if err := errors.ValidateNonNegative("dimThreshold", t.Dim); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("recThreshold", t.Rec); err != nil {
		return err
	}
	if t.DimTopN < 0 || t.RecTopN < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "top-N limits must not be negative")
	}
	return nil
}

// Request asks for one cluster to be filtered with the given thresholds.
type Request struct {
	Cluster    int
	Thresholds Thresholds
}

// Result is the outcome of one cluster scan. When Err is set the member
// lists are nil and the caller keeps the cluster's previous members.
type Result struct {
	Cluster  int
	Dim      []Score
	Rec      []Score
	Err      error
	Duration time.Duration
}

// Members returns the scores on axis a.
func (r Result) Members(a overlap.Axis) []Score {
	if a == overlap.Dim {
		return r.Dim
	}
	return r.Rec
}

// Scanner filters clusters of a Source on a bounded pool.
type Scanner struct {
	src    Source
	limit  int
	logger *log.Logger
}

// NewScanner returns a scanner over src with PoolSize workers. A nil logger
// falls back to log.Default().
func NewScanner(src Source, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{src: src, limit: PoolSize, logger: logger}
}

// ScanAll scans every cluster with the same thresholds.
func (s *Scanner) ScanAll(ctx context.Context, t Thresholds) []Result {
	reqs := make([]Request, s.src.Clusters())
	for i := range reqs {
		reqs[i] = Request{Cluster: i, Thresholds: t}
	}
	return s.Scan(ctx, reqs)
}

// Scan runs every request and blocks until all have finished. Results are
// returned in request order. Failures are recorded per result; a failing
// request does not cancel the others.
func (s *Scanner) Scan(ctx context.Context, reqs []Request) []Result {
	start := time.Now()
	hooks := observability.Scan()
	hooks.OnScanStart(ctx, len(reqs))

	results := make([]Result, len(reqs))
	var g errgroup.Group
	g.SetLimit(s.limit)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = s.scanOne(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			hooks.OnScanError(ctx, r.Cluster, r.Err)
			s.logger.Warn("cluster scan failed", "cluster", r.Cluster, "err", r.Err)
			continue
		}
		hooks.OnClusterScanned(ctx, r.Cluster, len(r.Dim), len(r.Rec), r.Duration)
	}
	elapsed := time.Since(start)
	hooks.OnScanComplete(ctx, len(reqs), failed, elapsed)
	s.logger.Debug("scan complete", "clusters", len(reqs), "failed", failed, "took", elapsed)
	return results
}

func (s *Scanner) scanOne(ctx context.Context, req Request) (res Result) {
	start := time.Now()
	res.Cluster = req.Cluster
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Cluster: req.Cluster,
				Err:     &errors.ScanError{Cluster: req.Cluster, Err: fmt.Errorf("panic: %v", r)},
			}
		}
		res.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = &errors.ScanError{Cluster: req.Cluster, Err: err}
		return res
	}
	if req.Cluster < 0 || req.Cluster >= s.src.Clusters() {
		res.Err = &errors.ScanError{
			Cluster: req.Cluster,
			Err:     errors.New(errors.ErrCodeNotFound, "no cluster %d", req.Cluster),
		}
		return res
	}
	t := req.Thresholds
	res.Dim = s.src.Vector(req.Cluster, overlap.Dim).Filter(t.Dim, t.DimTopN)
	res.Rec = s.src.Vector(req.Cluster, overlap.Rec).Filter(t.Rec, t.RecTopN)
	return res
}

// Failures returns the errors of all failed results.
func Failures(results []Result) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
