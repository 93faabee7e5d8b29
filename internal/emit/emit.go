// Package emit serializes resampled tables into the on-disk artifact layout:
// one CSV and one PDF per (role, increment) pair, plus a per-run manifest.
package emit

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hclifford823/icecore-resampler-2018version/internal/classify"
	"github.com/hclifford823/icecore-resampler-2018version/internal/run"
	"github.com/hclifford823/icecore-resampler-2018version/internal/table"
	"github.com/hclifford823/icecore-resampler-2018version/internal/utils"
)

// WriteFailureError indicates an artifact could not be written. It is scoped
// to a single (role, increment) pair.
type WriteFailureError struct {
	Path string
	Err  error
}

func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteFailureError) Unwrap() error { return e.Err }

// FileEmitter writes each resampled table under
// <OutDir>/<source>/Resampled_by_<Role>/<increment>/.
type FileEmitter struct {
	OutDir string
	// Raw, when set, is the original table; its series are drawn under the
	// resampled series in every plot.
	Raw *table.Table
	// LogPlots adds a second, log-scale PDF per pair.
	LogPlots bool

	artifacts []string
}

// Emit writes the CSV and PDF artifacts for one (role, increment) pair.
func (e *FileEmitter) Emit(t *table.Table, role classify.Role, increment float64) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("empty resampled table for %s", t.Name)
	}
	inc := formatIncrement(increment)
	dir := filepath.Join(e.OutDir, t.Name, "Resampled_by_"+string(role), inc)
	if err := utils.EnsureDir(dir); err != nil {
		return &WriteFailureError{Path: dir, Err: err}
	}
	axis := strings.ReplaceAll(t.Columns[0].Name, " ", "_")
	base := filepath.Join(dir, fmt.Sprintf("%s_%s_r%s", t.Name, axis, inc))

	csvPath := base + ".csv"
	if err := writeCSV(csvPath, t); err != nil {
		return err
	}
	e.artifacts = append(e.artifacts, csvPath)

	pdfPath := base + ".pdf"
	wrote, err := writePlotPDF(pdfPath, t, e.Raw, false)
	if err != nil {
		return err
	}
	if wrote {
		e.artifacts = append(e.artifacts, pdfPath)
	}
	if e.LogPlots {
		logPath := base + "_log.pdf"
		wrote, err := writePlotPDF(logPath, t, e.Raw, true)
		if err != nil {
			return err
		}
		if wrote {
			e.artifacts = append(e.artifacts, logPath)
		}
	}
	return nil
}

// Artifacts lists every file written so far, in emission order.
func (e *FileEmitter) Artifacts() []string { return e.artifacts }

func writeCSV(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteFailureError{Path: path, Err: err}
	}
	w := csv.NewWriter(f)
	header := make([]string, len(t.Columns))
	for i := range t.Columns {
		header[i] = t.Columns[i].Label()
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return &WriteFailureError{Path: path, Err: err}
	}
	rec := make([]string, len(t.Columns))
	for row := 0; row < t.Len(); row++ {
		for i := range t.Columns {
			v := t.Columns[i].Values[row]
			if math.IsNaN(v) {
				rec[i] = ""
			} else {
				rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return &WriteFailureError{Path: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &WriteFailureError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteFailureError{Path: path, Err: err}
	}
	return nil
}

// formatIncrement renders increments the way they appear in paths: shortest
// round-trip form, so 0.5 -> "0.5" and 5.0 -> "5".
func formatIncrement(inc float64) string {
	return strconv.FormatFloat(inc, 'g', -1, 64)
}

type manifestPair struct {
	Role      string  `json:"role"`
	Increment float64 `json:"increment"`
	Axis      string  `json:"axis,omitempty"`
	Bins      int     `json:"bins,omitempty"`
	Trimmed   int     `json:"trimmed_bins,omitempty"`
	Error     string  `json:"error,omitempty"`
}

type manifest struct {
	RunID     string         `json:"run_id"`
	Source    string         `json:"source"`
	CreatedAt time.Time      `json:"created_at"`
	Pairs     []manifestPair `json:"pairs"`
	Warnings  []string       `json:"warnings,omitempty"`
	Artifacts []string       `json:"artifacts"`
}

// WriteManifest records the run outcome as manifest.json under the source's
// output folder.
func (e *FileEmitter) WriteManifest(sum *run.Summary) error {
	m := manifest{
		RunID:     sum.RunID,
		Source:    sum.Source,
		CreatedAt: time.Now().UTC(),
		Artifacts: e.artifacts,
	}
	for i := range sum.Pairs {
		p := &sum.Pairs[i]
		mp := manifestPair{
			Role:      string(p.Role),
			Increment: p.Increment,
			Axis:      p.Axis,
			Bins:      p.Bins,
			Trimmed:   p.Trimmed,
		}
		if p.Err != nil {
			mp.Error = p.Err.Error()
		}
		m.Pairs = append(m.Pairs, mp)
	}
	for _, miss := range sum.Missing {
		m.Warnings = append(m.Warnings, miss.Error())
	}
	for _, amb := range sum.Ambiguous {
		m.Warnings = append(m.Warnings, amb.Error())
	}

	dir := filepath.Join(e.OutDir, sum.Source)
	if err := utils.EnsureDir(dir); err != nil {
		return &WriteFailureError{Path: dir, Err: err}
	}
	b, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, "manifest.json")
	if err := utils.SafeWriteFile(path, b); err != nil {
		return &WriteFailureError{Path: path, Err: err}
	}
	return nil
}
