// Package resample bins a dataset's numeric columns onto uniform increments
// of a chosen axis column.
package resample

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hclifford823/icecore-resampler-2018version/internal/table"
)

// NonPositiveIncrementError indicates an increment <= 0 (or NaN).
type NonPositiveIncrementError struct{ Increment float64 }

func (e *NonPositiveIncrementError) Error() string {
	return fmt.Sprintf("increment must be positive, got %v", e.Increment)
}

// EmptyAxisError indicates the axis column has no usable values.
type EmptyAxisError struct{ Column string }

func (e *EmptyAxisError) Error() string {
	return fmt.Sprintf("axis column %q has no non-missing values", e.Column)
}

// NoDependentColumnsError indicates the table holds nothing to aggregate
// besides the axis itself.
type NoDependentColumnsError struct{ Column string }

func (e *NoDependentColumnsError) Error() string {
	return fmt.Sprintf("no numeric columns to resample besides axis %q", e.Column)
}

// Resample bins every numeric column of t onto uniform steps of the axis
// column. Bins are half-open intervals [min+i*inc, min+(i+1)*inc) covering
// the observed axis range; the output axis holds each bin's left edge and
// every dependent column holds the arithmetic mean of the rows that fell in
// the bin, or NaN when none did. Every bin in the range appears in the
// output, so spacing stays uniform. Non-numeric columns are dropped.
func Resample(t *table.Table, axis string, increment float64) (*table.Table, error) {
	if math.IsNaN(increment) || increment <= 0 {
		return nil, &NonPositiveIncrementError{Increment: increment}
	}
	ax, ok := t.Column(axis)
	if !ok {
		return nil, fmt.Errorf("axis column %q not found in %s", axis, t.Name)
	}
	min, max, n := ax.Range()
	if n == 0 {
		return nil, &EmptyAxisError{Column: axis}
	}

	var deps []*table.Column
	for i := range t.Columns {
		c := &t.Columns[i]
		if c.Name != axis && c.Numeric {
			deps = append(deps, c)
		}
	}
	if len(deps) == 0 {
		return nil, &NoDependentColumnsError{Column: axis}
	}

	// Edges are generated while edge <= max, so a range that divides evenly
	// keeps its final edge and re-binning an already-binned table reproduces
	// the same boundaries.
	bins := int(math.Floor((max-min)/increment)) + 1
	if bins < 1 {
		bins = 1
	}

	acc := make([][][]float64, len(deps))
	for d := range acc {
		acc[d] = make([][]float64, bins)
	}
	for i, v := range ax.Values {
		if math.IsNaN(v) {
			continue
		}
		idx := int(math.Floor((v - min) / increment))
		if idx >= bins {
			// v == max lands exactly on the upper edge
			idx = bins - 1
		}
		for d, dep := range deps {
			if dv := dep.Values[i]; !math.IsNaN(dv) {
				acc[d][idx] = append(acc[d][idx], dv)
			}
		}
	}

	out := &table.Table{Name: t.Name, Columns: make([]table.Column, 0, len(deps)+1)}
	edges := make([]float64, bins)
	for i := range edges {
		edges[i] = min + float64(i)*increment
	}
	out.Columns = append(out.Columns, table.Column{Name: ax.Name, Unit: ax.Unit, Numeric: true, Values: edges})
	for d, dep := range deps {
		vals := make([]float64, bins)
		for b := range vals {
			if len(acc[d][b]) == 0 {
				vals[b] = math.NaN()
				continue
			}
			vals[b] = stat.Mean(acc[d][b], nil)
		}
		out.Columns = append(out.Columns, table.Column{Name: dep.Name, Unit: dep.Unit, Numeric: true, Values: vals})
	}
	return out, nil
}

// TrimSparseTail truncates a resampled table at the first run of minRun or
// more consecutive empty bins, the point past which the source data is too
// sparse to support the requested increment. It returns the number of bins
// dropped; 0 means the table was returned untouched.
func TrimSparseTail(t *table.Table, minRun int) int {
	if minRun <= 0 || len(t.Columns) < 2 {
		return 0
	}
	rows := t.Len()
	run := 0
	for i := 0; i < rows; i++ {
		if emptyBin(t, i) {
			run++
			if run == minRun {
				cut := i - minRun + 1
				for c := range t.Columns {
					t.Columns[c].Values = t.Columns[c].Values[:cut]
				}
				return rows - cut
			}
		} else {
			run = 0
		}
	}
	return 0
}

// emptyBin reports whether every dependent column is missing at row i. The
// first column is the axis and always holds an edge value.
func emptyBin(t *table.Table, i int) bool {
	for c := 1; c < len(t.Columns); c++ {
		if !math.IsNaN(t.Columns[c].Values[i]) {
			return false
		}
	}
	return true
}
