package table

import (
	"math"
	"strings"
)

// Column is a single named field of a dataset. Values always has one entry
// per row; missing or unparseable cells hold NaN. Numeric reports whether
// numeric values predominate in the column, which is what the resampler
// keys off when selecting dependent data.
type Column struct {
	Name    string
	Unit    string
	Numeric bool
	Values  []float64
}

// Table is an in-memory dataset: ordered named columns over a shared row
// count. Row order is input order and carries no meaning beyond that.
type Table struct {
	// Name is the base name of the source file, without extension.
	Name    string
	Columns []Column
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Column finds a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Label renders a column name with its unit, e.g. "Depth [m]".
func (c *Column) Label() string {
	if c.Unit == "" {
		return c.Name
	}
	return c.Name + " [" + c.Unit + "]"
}

// Range returns the minimum and maximum over non-missing values and the
// count of values that contributed. NaNs are skipped.
func (c *Column) Range() (min, max float64, n int) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range c.Values {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		n++
	}
	return min, max, n
}

func baseName(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i > 0 {
		return filename[:i]
	}
	return filename
}
