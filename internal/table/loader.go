package table

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Options controls dataset loading.
type Options struct {
	// Delimiter for delimited text. If 0, it is sniffed from the extension.
	Delimiter rune
	// DecimalSeparator for numeric cells. If 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// XLSX sheet selection. SheetIndex is 1-based; SheetName wins when set.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns loading defaults: sniffed delimiter, auto numeric
// locale, first worksheet.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Loader reads one on-disk format into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(textLoader{})
	Register(xlsxLoader{})
}

// UnsupportedFormatError indicates the file extension maps to no loader.
type UnsupportedFormatError struct{ Path string }

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported dataset format %q (expected .csv, .tsv, .txt or .xlsx)", filepath.Ext(e.Path))
}

// Load selects a loader by filename and reads the dataset.
func Load(path string, opt Options) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, &UnsupportedFormatError{Path: path}
}

// fromRecords builds a Table from a header row and data rows. Cells are
// parsed numerically where possible; a column is numeric when numeric cells
// predominate over text cells. Short rows are padded with missing values and
// long rows truncated to the header width.
func fromRecords(name string, header []string, rows [][]string, opt Options) (*Table, error) {
	ncol := len(header)
	if ncol == 0 {
		return nil, fmt.Errorf("dataset %s has no header row", name)
	}
	cols := make([]Column, ncol)
	numCnt := make([]int, ncol)
	txtCnt := make([]int, ncol)
	for i, h := range header {
		clean, unit := splitUnits(strings.TrimSpace(h))
		cols[i] = Column{Name: clean, Unit: unit, Values: make([]float64, 0, len(rows))}
	}
	for _, rec := range rows {
		for j := 0; j < ncol; j++ {
			var raw string
			if j < len(rec) {
				raw = strings.TrimSpace(rec[j])
			}
			if raw == "" {
				cols[j].Values = append(cols[j].Values, math.NaN())
				continue
			}
			if x, ok := parseNumeric(raw, opt); ok {
				numCnt[j]++
				cols[j].Values = append(cols[j].Values, x)
			} else {
				txtCnt[j]++
				cols[j].Values = append(cols[j].Values, math.NaN())
			}
		}
	}
	for j := range cols {
		cols[j].Numeric = numCnt[j] > 0 && numCnt[j] >= txtCnt[j]
	}
	return &Table{Name: name, Columns: cols}, nil
}
