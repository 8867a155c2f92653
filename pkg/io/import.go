package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/source"
)

type dataset struct {
	Name          string            `json:"name,omitempty"`
	X             [][]float64       `json:"x,omitempty"`
	L             [][]float64       `json:"l,omitempty"`
	Z             [][]float64       `json:"z,omitempty"`
	ClusterLabels []string          `json:"clusterLabels,omitempty"`
	DimLabels     []string          `json:"dimLabels,omitempty"`
	RecLabels     []string          `json:"recLabels,omitempty"`
	Externals     []source.External `json:"externals,omitempty"`
}

// ReadDataset decodes a dataset from r. Rows of each matrix must have equal
// length; cross-matrix shapes are checked by [source.Dataset.Validate].
func ReadDataset(r io.Reader) (*source.Dataset, error) {
	var in dataset
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode dataset")
	}

	ds := &source.Dataset{
		Name:          in.Name,
		ClusterLabels: in.ClusterLabels,
		DimLabels:     in.DimLabels,
		RecLabels:     in.RecLabels,
		Externals:     in.Externals,
	}
	for _, m := range []struct {
		name string
		rows [][]float64
		dst  **source.Matrix
	}{{"x", in.X, &ds.X}, {"l", in.L, &ds.L}, {"z", in.Z, &ds.Z}} {
		if m.rows == nil {
			continue
		}
		mat, err := fromRows(m.rows)
		if err != nil {
			return nil, fmt.Errorf("matrix %s: %w", m.name, err)
		}
		*m.dst = mat
	}
	return ds, nil
}

// ImportDataset reads a dataset from a JSON file or a CSV directory.
func ImportDataset(path string) (*source.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return importDir(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	ds, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if ds.Name == "" {
		ds.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ds, nil
}

func importDir(dir string) (*source.Dataset, error) {
	ds := &source.Dataset{Name: filepath.Base(dir)}
	for _, m := range []struct {
		file   string
		dst    **source.Matrix
		header *[]string
	}{
		{"x.csv", &ds.X, &ds.DimLabels},
		{"l.csv", &ds.L, &ds.ClusterLabels},
		{"z.csv", &ds.Z, nil},
	} {
		path := filepath.Join(dir, m.file)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		mat, header, err := ReadMatrixCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		*m.dst = mat
		if m.header != nil {
			*m.header = header
		}
	}
	return ds, nil
}

// ReadMatrixCSV reads a numeric CSV matrix. A non-numeric first row is
// returned as the header.
func ReadMatrixCSV(r io.Reader) (*source.Matrix, []string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv")
	}

	var header []string
	if len(records) > 0 {
		if _, err := parseRow(records[0]); err != nil {
			header, records = records[0], records[1:]
		}
	}
	rows := make([][]float64, len(records))
	for i, rec := range records {
		row, err := parseRow(rec)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "row %d", i+1)
		}
		rows[i] = row
	}
	m, err := fromRows(rows)
	if err != nil {
		return nil, nil, err
	}
	return m, header, nil
}

func parseRow(rec []string) ([]float64, error) {
	row := make([]float64, len(rec))
	for i, s := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func fromRows(rows [][]float64) (*source.Matrix, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.New(errors.ErrCodeInvalidDataset, "row %d has %d values, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return source.NewMatrix(len(rows), cols, data)
}
