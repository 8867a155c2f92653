// Package events is the synchronous publish/subscribe bus that connects the
// scene, its nodes and the user-facing surfaces.
//
// Events are plain structs tagged with a [Kind]. [Bus.Publish] calls every
// handler subscribed to that kind on the publishing goroutine, in
// subscription order, before it returns. Handlers may publish further events
// or change subscriptions; a change takes effect for the next Publish.
package events

import (
	"sync"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/sorting"
)

// Kind identifies an event variant.
type Kind int

const (
	FocusChanged Kind = iota
	NodeHidden
	NodeShown
	SortingChanged
	ThresholdChanged
	MaxDistanceChanged
	LockChanged
	SearchChanged
	ForcesChanged
	BandsToggled
	numKinds
)

var kindNames = [numKinds]string{
	FocusChanged:       "focus_changed",
	NodeHidden:         "node_hidden",
	NodeShown:          "node_shown",
	SortingChanged:     "sorting_changed",
	ThresholdChanged:   "threshold_changed",
	MaxDistanceChanged: "max_distance_changed",
	LockChanged:        "lock_changed",
	SearchChanged:      "search_changed",
	ForcesChanged:      "forces_changed",
	BandsToggled:       "bands_toggled",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// None is the node id carried by events that do not target a node, such as
// a focus change that releases the focus.
const None = -1

// Event is implemented by every event struct.
type Event interface {
	Kind() Kind
}

// Focus reports a new focused node, or None when the focus was released.
type Focus struct{ Node int }

// Hidden reports a node hidden by the user.
type Hidden struct{ Node int }

// Shown reports a previously hidden node made visible again.
type Shown struct{ Node int }

// Sorting reports a new element sorting mode.
type Sorting struct{ Mode sorting.Mode }

// Threshold reports new member thresholds. Global events apply to every
// node that is not locked; others apply to Node only. A TopN of zero means
// unlimited.
type Threshold struct {
	Node         int
	Global       bool
	RecThreshold float64
	DimThreshold float64
	RecTopN      int
	DimTopN      int
}

// MaxDistance reports a new focus neighbourhood radius.
type MaxDistance struct{ Max int }

// Lock reports a node whose thresholds were pinned or released.
type Lock struct {
	Node   int
	Locked bool
}

// Search reports a new label filter; an empty term clears it.
type Search struct{ Term string }

// Forces reports new layout force constants.
type Forces struct {
	Repulsion  float64
	Attraction float64
	Border     float64
}

// Bands reports which band axes are drawn.
type Bands struct {
	Dim bool
	Rec bool
}

func (Focus) Kind() Kind       { return FocusChanged }
func (Hidden) Kind() Kind      { return NodeHidden }
func (Shown) Kind() Kind       { return NodeShown }
func (Sorting) Kind() Kind     { return SortingChanged }
func (Threshold) Kind() Kind   { return ThresholdChanged }
func (MaxDistance) Kind() Kind { return MaxDistanceChanged }
func (Lock) Kind() Kind        { return LockChanged }
func (Search) Kind() Kind      { return SearchChanged }
func (Forces) Kind() Kind      { return ForcesChanged }
func (Bands) Kind() Kind       { return BandsToggled }

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Bus dispatches events to subscribers. It is safe for concurrent use, but
// delivery is always synchronous on the publishing goroutine.
type Bus struct {
	mu     sync.RWMutex
	next   int
	topics [numKinds][]subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus { return &Bus{} }

// Subscribe registers fn for events of kind k and returns a function that
// removes the subscription. Calling it more than once is harmless.
func (b *Bus) Subscribe(k Kind, fn Handler) (unsubscribe func()) {
	if k < 0 || k >= numKinds || fn == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.topics[k] = append(b.topics[k], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(k, id) })
	}
}

func (b *Bus) remove(k Kind, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.topics[k]
	for i, s := range subs {
		if s.id == id {
			b.topics[k] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every current subscriber of its kind and returns
// the number of handlers called.
func (b *Bus) Publish(e Event) int {
	k := e.Kind()
	if k < 0 || k >= numKinds {
		return 0
	}
	b.mu.RLock()
	subs := b.topics[k]
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(e)
	}
	return len(subs)
}

// Subscribers returns the number of handlers registered for kind k.
func (b *Bus) Subscribers(k Kind) int {
	if k < 0 || k >= numKinds {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[k])
}
