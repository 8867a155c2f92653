package sink

import (
	"encoding/json"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact  bool
	geometry bool
	dataset  string
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithoutJSONGeometry drops band geometry, keeping nodes and edges only.
func WithoutJSONGeometry() JSONOption { return func(r *jsonRenderer) { r.geometry = false } }

// WithJSONDataset records the dataset name in the output.
func WithJSONDataset(name string) JSONOption { return func(r *jsonRenderer) { r.dataset = name } }

type jsonOutput struct {
	Dataset string `json:"dataset,omitempty"`
	scene.Frame
}

// RenderJSON encodes f.
func RenderJSON(f scene.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{geometry: true}
	for _, opt := range opts {
		opt(&r)
	}
	if !r.geometry {
		bands := make([]scene.BandFrame, len(f.Bands))
		for i, b := range f.Bands {
			b.Ribbons, b.Splines, b.Stubs = nil, nil, nil
			bands[i] = b
		}
		f.Bands = bands
	}

	out := jsonOutput{Dataset: r.dataset, Frame: f}
	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
