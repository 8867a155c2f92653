package events

import (
	"slices"
	"testing"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/sorting"
)

func TestPublishDeliversByKind(t *testing.T) {
	b := NewBus()
	var got []Event
	b.Subscribe(FocusChanged, func(e Event) { got = append(got, e) })
	b.Subscribe(SearchChanged, func(e Event) { t.Errorf("search handler got %#v", e) })

	if n := b.Publish(Focus{Node: 3}); n != 1 {
		t.Errorf("Publish() = %d, want 1", n)
	}
	if len(got) != 1 || got[0] != (Focus{Node: 3}) {
		t.Errorf("got %#v", got)
	}
}

func TestPublishOrderAndSynchronous(t *testing.T) {
	b := NewBus()
	var order []int
	for i := range 3 {
		b.Subscribe(SortingChanged, func(Event) { order = append(order, i) })
	}
	b.Publish(Sorting{Mode: sorting.ByBand})
	if !slices.Equal(order, []int{0, 1, 2}) {
		t.Errorf("order = %v", order)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	unsub := b.Subscribe(NodeHidden, func(Event) { calls++ })
	keep := b.Subscribe(NodeHidden, func(Event) {})
	defer keep()

	b.Publish(Hidden{Node: 1})
	unsub()
	unsub()
	b.Publish(Hidden{Node: 1})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := b.Subscribers(NodeHidden); n != 1 {
		t.Errorf("Subscribers() = %d, want 1", n)
	}
}

func TestHandlersMayPublishAndSubscribe(t *testing.T) {
	b := NewBus()
	var seen []Kind
	b.Subscribe(FocusChanged, func(e Event) {
		seen = append(seen, e.Kind())
		b.Subscribe(FocusChanged, func(Event) { seen = append(seen, NodeShown) })
		b.Publish(MaxDistance{Max: 2})
	})
	b.Subscribe(MaxDistanceChanged, func(e Event) { seen = append(seen, e.Kind()) })

	b.Publish(Focus{Node: None})
	want := []Kind{FocusChanged, MaxDistanceChanged}
	if !slices.Equal(seen, want) {
		t.Errorf("seen = %v, want %v", seen, want)
	}
}

func TestSubscribeRejectsInvalid(t *testing.T) {
	b := NewBus()
	b.Subscribe(Kind(99), func(Event) {})()
	b.Subscribe(FocusChanged, nil)()
	if n := b.Subscribers(FocusChanged); n != 0 {
		t.Errorf("Subscribers() = %d", n)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		e    Event
		want string
	}{
		{Focus{}, "focus_changed"},
		{Hidden{}, "node_hidden"},
		{Shown{}, "node_shown"},
		{Sorting{}, "sorting_changed"},
		{Threshold{}, "threshold_changed"},
		{MaxDistance{}, "max_distance_changed"},
		{Lock{}, "lock_changed"},
		{Search{}, "search_changed"},
		{Forces{}, "forces_changed"},
		{Bands{}, "bands_toggled"},
	}
	for _, tt := range tests {
		if got := tt.e.Kind().String(); got != tt.want {
			t.Errorf("%T kind = %q, want %q", tt.e, got, tt.want)
		}
	}
	if got := Kind(-1).String(); got != "unknown" {
		t.Errorf("Kind(-1).String() = %q", got)
	}
}
