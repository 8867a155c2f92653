package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/observability"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/render"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/render/nodelink"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/render/sink"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
)

// Render encodes f in every format of opts.Formats.
func Render(ctx context.Context, f scene.Frame, opts Options) (artifacts map[string][]byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, f, format, opts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, f scene.Frame, format string, opts Options) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		return sink.RenderJSON(f)
	case render.FormatSVG:
		var svgOpts []sink.SVGOption
		if opts.Labels {
			svgOpts = append(svgOpts, sink.WithLabels())
		}
		return sink.RenderSVG(f, svgOpts...), nil
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(f, nodelink.Options{Detailed: opts.Detailed})), nil
	case render.FormatGraph:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(f, nodelink.Options{Detailed: opts.Detailed}))
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
