// Package data builds cvselect datasets from files and from synthetic
// segmentation problems.
package data

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/btracey/cvselect"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ReadCSV reads one sample per record. The last nLabels fields of a record are
// the label and the rest are the input. A first record that does not parse as
// numbers is taken to be a header and skipped.
func ReadCSV(r io.Reader, nLabels int) (*cvselect.Dataset, error) {
	if nLabels <= 0 {
		return nil, errors.Errorf("data: need at least one label column, have %d", nLabels)
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.FieldsPerRecord = -1

	var xs, ys []float64
	var nCols, nRows int
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "data: reading csv")
		}
		vals, err := parseRecord(rec)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, errors.Wrapf(err, "data: line %d", line)
		}
		if nCols == 0 {
			nCols = len(vals)
			if nCols <= nLabels {
				return nil, errors.Errorf("data: %d columns leave no input for %d labels", nCols, nLabels)
			}
		}
		if len(vals) != nCols {
			return nil, errors.Errorf("data: line %d has %d fields, want %d", line, len(vals), nCols)
		}
		xs = append(xs, vals[:nCols-nLabels]...)
		ys = append(ys, vals[nCols-nLabels:]...)
		nRows++
	}
	if nRows == 0 {
		return nil, errors.New("data: no samples")
	}
	return cvselect.NewDataset(
		mat.NewDense(nRows, nCols-nLabels, xs),
		mat.NewDense(nRows, nLabels, ys),
	), nil
}

// ReadColumn reads a single numeric column, as written by the plotting
// tools, skipping a header line.
func ReadColumn(r io.Reader) ([]float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	var vals []float64
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "data: reading csv")
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, errors.Wrapf(err, "data: line %d", line)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func parseRecord(rec []string) ([]float64, error) {
	vals := make([]float64, len(rec))
	for i, s := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
