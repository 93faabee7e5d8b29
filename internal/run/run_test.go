package run

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/hclifford823/icecore-resampler-2018version/internal/classify"
	"github.com/hclifford823/icecore-resampler-2018version/internal/resample"
	"github.com/hclifford823/icecore-resampler-2018version/internal/table"
)

type recordingEmitter struct {
	pairs []string
	fail  map[string]error
}

func (r *recordingEmitter) Emit(t *table.Table, role classify.Role, inc float64) error {
	key := fmt.Sprintf("%s@%v", role, inc)
	r.pairs = append(r.pairs, key)
	if err := r.fail[key]; err != nil {
		return err
	}
	return nil
}

func ageOnlyTable() *table.Table {
	return &table.Table{
		Name: "core",
		Columns: []table.Column{
			{Name: "Age", Numeric: true, Values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
			{Name: "Dust", Numeric: true, Values: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
		},
	}
}

func TestRunAllWithOnlyAgeColumn(t *testing.T) {
	em := &recordingEmitter{}
	r := &Runner{}
	sum := r.Run(ageOnlyTable(), classify.AllRoles, []float64{5, 2}, em)

	if sum.RunID == "" {
		t.Fatalf("expected a run id")
	}
	// Depth is skipped for every increment with one aggregated warning
	if len(sum.Missing) != 1 || sum.Missing[0].Role != classify.Depth {
		t.Fatalf("expected Depth reported missing once, got %v", sum.Missing)
	}
	if len(sum.Pairs) != 2 || sum.Succeeded() != 2 {
		t.Fatalf("expected 2 successful Year pairs, got %+v", sum.Pairs)
	}
	want := []string{"Year@5", "Year@2"}
	for i, k := range want {
		if em.pairs[i] != k {
			t.Fatalf("pair %d: expected %s, got %s", i, k, em.pairs[i])
		}
	}
	if sum.AllRolesFailed() {
		t.Fatalf("run with one matched role must not be a total failure")
	}
}

func TestRunPartialFailureContinues(t *testing.T) {
	em := &recordingEmitter{}
	r := &Runner{}
	sum := r.Run(ageOnlyTable(), []classify.Role{classify.Year}, []float64{-1, 5}, em)

	if len(sum.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(sum.Pairs))
	}
	var npe *resample.NonPositiveIncrementError
	if !errors.As(sum.Pairs[0].Err, &npe) {
		t.Fatalf("expected NonPositiveIncrementError for first pair, got %v", sum.Pairs[0].Err)
	}
	if !sum.Pairs[1].OK() || sum.Pairs[1].Bins != 2 {
		t.Fatalf("second pair must still succeed, got %+v", sum.Pairs[1])
	}
	// a bad increment never reaches the emitter
	if len(em.pairs) != 1 || em.pairs[0] != "Year@5" {
		t.Fatalf("expected only the good pair emitted, got %v", em.pairs)
	}
}

func TestRunEmitFailureScopedToPair(t *testing.T) {
	em := &recordingEmitter{fail: map[string]error{"Year@5": errors.New("disk full")}}
	r := &Runner{}
	sum := r.Run(ageOnlyTable(), []classify.Role{classify.Year}, []float64{5, 2}, em)

	if sum.Succeeded() != 1 {
		t.Fatalf("expected 1 success, got %d", sum.Succeeded())
	}
	if sum.Pairs[0].Err == nil || sum.Pairs[1].Err != nil {
		t.Fatalf("expected only first pair failed, got %+v", sum.Pairs)
	}
}

func TestRunNothingMatches(t *testing.T) {
	em := &recordingEmitter{}
	r := &Runner{}
	tbl := &table.Table{Name: "core", Columns: []table.Column{
		{Name: "Velocity", Numeric: true, Values: []float64{1, 2}},
	}}
	sum := r.Run(tbl, classify.AllRoles, []float64{1}, em)
	if !sum.AllRolesFailed() {
		t.Fatalf("expected total classification failure")
	}
	if len(em.pairs) != 0 {
		t.Fatalf("nothing should be emitted, got %v", em.pairs)
	}
}

func TestRunEachPairReadsOriginalTable(t *testing.T) {
	src := ageOnlyTable()
	var lens []int
	em := EmitterFunc(func(t *table.Table, role classify.Role, inc float64) error {
		lens = append(lens, t.Len())
		return nil
	})
	r := &Runner{}
	sum := r.Run(src, []classify.Role{classify.Year}, []float64{2, 2}, em)
	if sum.Succeeded() != 2 {
		t.Fatalf("expected 2 successes, got %d", sum.Succeeded())
	}
	// identical increments give identical outputs only if neither pass
	// mutated the source
	if len(lens) != 2 || lens[0] != lens[1] {
		t.Fatalf("expected identical bin counts, got %v", lens)
	}
	if src.Len() != 10 || math.IsNaN(src.Columns[1].Values[0]) {
		t.Fatalf("source table must stay untouched")
	}
}

func TestRunTrimsSparseTail(t *testing.T) {
	tbl := &table.Table{
		Name: "core",
		Columns: []table.Column{
			{Name: "Depth", Numeric: true, Values: []float64{0, 1, 9}},
			{Name: "Na", Numeric: true, Values: []float64{5, 6, 7}},
		},
	}
	em := &recordingEmitter{}
	r := &Runner{TrimSparseBins: 5}
	sum := r.Run(tbl, []classify.Role{classify.Depth}, []float64{1}, em)
	if sum.Succeeded() != 1 {
		t.Fatalf("expected success, got %+v", sum.Pairs)
	}
	// bins 2..8 are empty; the run of 7 starts at index 2
	if sum.Pairs[0].Trimmed != 8 || sum.Pairs[0].Bins != 2 {
		t.Fatalf("expected 8 bins trimmed leaving 2, got %+v", sum.Pairs[0])
	}
}
