package scene

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/events"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/layout"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/sorting"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/source"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/zoom"
)

// None is the id used for "no node".
const None = layout.None

// Scene owns the model and all interaction state.
type Scene struct {
	mu sync.Mutex

	cfg    Config
	logger *log.Logger

	model  *overlap.Model
	ctx    *layout.Context
	engine *layout.Engine
	bus    *events.Bus

	data    source.Source
	scanner *source.Scanner
	nodes   []*node // indexed by node ID

	search      string
	hoveredBand *bandKey
	bandFades   map[bandKey]*zoom.Fade
	bandSets    map[bandKey]bandCache

	seq  int
	last Frame
}

// New returns an empty scene. A nil logger falls back to log.Default().
func New(cfg Config, logger *log.Logger) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Scene{
		cfg:       cfg,
		logger:    logger,
		model:     overlap.NewModel(),
		ctx:       cfg.newContext(),
		engine:    layout.New(cfg.Layout, logger),
		bus:       events.NewBus(),
		bandFades: make(map[bandKey]*zoom.Fade),
		bandSets:  make(map[bandKey]bandCache),
	}
	s.subscribe()
	return s, nil
}

// Bus returns the scene's event bus for outside observers.
func (s *Scene) Bus() *events.Bus { return s.bus }

// Config returns the current parameters.
func (s *Scene) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Load replaces the scene's content with the clusters of ds. Every cluster is
// scanned with the configured thresholds; external clusters are added with
// their given members. A dataset with fewer than three matrices leaves the
// scene empty and returns a DATA_UNAVAILABLE error.
func (s *Scene) Load(ctx context.Context, ds *source.Dataset) error {
	if ds == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil dataset")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model = overlap.NewModel()
	s.model.SetNamespace(ds.Name)
	s.nodes = nil
	s.data, s.scanner = nil, nil
	s.ctx = s.cfg.newContext()
	s.hoveredBand = nil
	clear(s.bandFades)
	clear(s.bandSets)

	if err := ds.Validate(); err != nil {
		if errors.Is(err, errors.ErrCodeDataUnavailable) {
			s.logger.Warn("dataset incomplete, scene left empty", "matrices", ds.Matrices())
		}
		return err
	}
	s.data = ds
	s.scanner = source.NewScanner(ds, s.logger)

	results := s.scanner.ScanAll(ctx, s.cfg.Thresholds)
	for _, r := range results {
		var dims, recs []int
		if r.Err == nil {
			dims, recs = source.Indices(r.Dim), source.Indices(r.Rec)
		}
		n := s.model.Add(ds.ClusterLabel(r.Cluster), overlap.Normal, dims, recs)
		n.Cluster = r.Cluster
		sn := newNode(n, s.cfg.Thresholds)
		sn.scores = [2][]source.Score{r.Dim, r.Rec}
		s.nodes = append(s.nodes, sn)
	}
	for _, e := range ds.Externals {
		n := s.model.Add(e.Label, overlap.SpecialExternal, e.Dims, e.Recs)
		s.nodes = append(s.nodes, newNode(n, s.cfg.Thresholds))
	}

	s.resortAll()
	s.updateVisibility()
	s.logger.Info("scene loaded", "dataset", ds.Name, "clusters", ds.Clusters(),
		"external", len(ds.Externals), "edges", len(s.model.Edges()))
	return nil
}

// ApplyThresholds publishes a threshold change and rescans the clusters it
// applies to. Global changes skip locked nodes. A cluster whose scan fails
// keeps its previous members.
func (s *Scene) ApplyThresholds(ctx context.Context, ev events.Threshold) error {
	t := thresholdsOf(ev)
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ev.Global {
		if _, err := s.normal(ev.Node); err != nil {
			return err
		}
	}
	if ev.Global {
		s.cfg.Thresholds = t
	}
	s.bus.Publish(ev)

	var reqs []source.Request
	byCluster := make(map[int]*node)
	for _, n := range s.nodes {
		if n != nil && n.dirty {
			n.dirty = false
			reqs = append(reqs, source.Request{Cluster: n.Cluster, Thresholds: n.thresholds})
			byCluster[n.Cluster] = n
		}
	}
	if len(reqs) == 0 || s.scanner == nil {
		return nil
	}
	for _, r := range s.scanner.Scan(ctx, reqs) {
		if r.Err == nil {
			byCluster[r.Cluster].scores = [2][]source.Score{r.Dim, r.Rec}
		}
	}
	s.resortAll()
	s.refocus()
	return nil
}

// SetSorting changes how members are ordered inside every node.
func (s *Scene) SetSorting(m sorting.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(events.Sorting{Mode: m})
}

// resortAll orders every node's members by the current sorting mode and
// writes them to the model.
func (s *Scene) resortAll() {
	for _, n := range s.nodes {
		if n == nil {
			continue
		}
		for _, a := range overlap.AllAxes {
			seq := n.probabilityOrder(a)
			if s.cfg.Sorting == sorting.ByBand {
				seq = sorting.Order(seq, s.bandGroups(n.ID, a))
			}
			if err := s.model.SetIndices(n.ID, a, seq); err != nil {
				s.logger.Error("reorder failed", "node", n.ID, "axis", a, "err", err)
			}
		}
	}
}

// bandGroups returns the node's non-empty overlaps on axis a, one group per
// neighbour, in the node's own order.
func (s *Scene) bandGroups(id int, a overlap.Axis) [][]int {
	var groups [][]int
	for _, e := range s.model.IncidentEdges(id) {
		if ov := s.model.Overlap(id, e.Pair.Other(id), a); len(ov) > 0 {
			groups = append(groups, ov)
		}
	}
	return groups
}

func (s *Scene) node(id int) (*node, error) {
	if id < 0 || id >= len(s.nodes) || s.nodes[id] == nil {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "no node %d", id)
	}
	return s.nodes[id], nil
}

func (s *Scene) normal(id int) (*node, error) {
	n, err := s.node(id)
	if err != nil {
		return nil, err
	}
	if n.Kind != overlap.Normal {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node %d has no thresholds", id)
	}
	return n, nil
}
