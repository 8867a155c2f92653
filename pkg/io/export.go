package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/source"
)

// WriteDataset encodes ds in the row-array format read by [ReadDataset].
func WriteDataset(ds *source.Dataset, w io.Writer) error {
	out := dataset{
		Name:          ds.Name,
		X:             toRows(ds.X),
		L:             toRows(ds.L),
		Z:             toRows(ds.Z),
		ClusterLabels: ds.ClusterLabels,
		DimLabels:     ds.DimLabels,
		RecLabels:     ds.RecLabels,
		Externals:     ds.Externals,
	}
	return encode(w, out)
}

// WriteFrame encodes f as indented JSON.
func WriteFrame(f *scene.Frame, w io.Writer) error {
	return encode(w, f)
}

// ReadFrame decodes a frame written by [WriteFrame].
func ReadFrame(r io.Reader) (*scene.Frame, error) {
	var f scene.Frame
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode frame")
	}
	return &f, nil
}

// ExportFrame writes f to a JSON file at path.
func ExportFrame(f *scene.Frame, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteFrame(f, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func toRows(m *source.Matrix) [][]float64 {
	if m == nil {
		return nil
	}
	rows := make([][]float64, m.Rows)
	for r := range rows {
		rows[r] = m.Data[r*m.Cols : (r+1)*m.Cols]
	}
	return rows
}
