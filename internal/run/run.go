// Package run drives the resampling engine across every requested
// (role, increment) combination and hands each result to an emitter.
package run

import (
	"github.com/google/uuid"

	"github.com/hclifford823/icecore-resampler-2018version/internal/classify"
	"github.com/hclifford823/icecore-resampler-2018version/internal/resample"
	"github.com/hclifford823/icecore-resampler-2018version/internal/table"
)

// Emitter receives each resampled table as soon as it is produced.
type Emitter interface {
	Emit(t *table.Table, role classify.Role, increment float64) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(t *table.Table, role classify.Role, increment float64) error

func (f EmitterFunc) Emit(t *table.Table, role classify.Role, increment float64) error {
	return f(t, role, increment)
}

// PairStatus records the outcome of one (role, increment) combination.
type PairStatus struct {
	Role      classify.Role
	Increment float64
	Axis      string
	Bins      int
	Trimmed   int
	Err       error
}

// OK reports whether the pair produced artifacts.
func (p *PairStatus) OK() bool { return p.Err == nil }

// Summary aggregates the outcome of a whole invocation.
type Summary struct {
	RunID     string
	Source    string
	Pairs     []PairStatus
	Missing   []*classify.NoColumnForRoleError
	Ambiguous []*classify.AmbiguousColumnError
}

// Succeeded counts pairs that produced artifacts.
func (s *Summary) Succeeded() int {
	n := 0
	for i := range s.Pairs {
		if s.Pairs[i].OK() {
			n++
		}
	}
	return n
}

// AllRolesFailed reports whether classification matched nothing at all, the
// one condition that makes a run fatal.
func (s *Summary) AllRolesFailed() bool { return len(s.Pairs) == 0 }

// Runner holds the knobs shared by every pair of one invocation.
type Runner struct {
	Synonyms classify.Synonyms
	// TrimSparseBins truncates each result at a run of this many consecutive
	// empty bins. 0 disables trimming.
	TrimSparseBins int
	// Logf, when set, receives human-readable progress lines.
	Logf func(format string, a ...any)
}

func (r *Runner) logf(format string, a ...any) {
	if r.Logf != nil {
		r.Logf(format, a...)
	}
}

// Run classifies the table's columns, then resamples the original table once
// per (role, increment) pair in request order, streaming each result to em.
// A role with no matching column is skipped for every increment; a failure
// in one pair never aborts the others. Each pair reads the same immutable
// source table, so results are independent of iteration order.
func (r *Runner) Run(t *table.Table, roles []classify.Role, increments []float64, em Emitter) *Summary {
	syn := r.Synonyms
	if syn == nil {
		syn = classify.DefaultSynonyms()
	}
	cls := classify.Classify(t.Names(), roles, syn)

	sum := &Summary{
		RunID:     uuid.NewString(),
		Source:    t.Name,
		Missing:   cls.Missing,
		Ambiguous: cls.Ambiguous,
	}
	for _, role := range roles {
		axis, ok := cls.Axis(role)
		if !ok {
			r.logf("⚠ no %s-like column found; skipping role %s\n", role, role)
			continue
		}
		r.logf("Resampling by %s: %s\n", role, axis)
		for _, inc := range increments {
			st := PairStatus{Role: role, Increment: inc, Axis: axis}
			rt, err := resample.Resample(t, axis, inc)
			if err != nil {
				st.Err = err
				r.logf("⚠ %s @ %v: %v\n", role, inc, err)
				sum.Pairs = append(sum.Pairs, st)
				continue
			}
			if r.TrimSparseBins > 0 {
				if dropped := resample.TrimSparseTail(rt, r.TrimSparseBins); dropped > 0 {
					st.Trimmed = dropped
					r.logf("⚠ %s @ %v: trimmed %d sparse bins from the tail\n", role, inc, dropped)
				}
			}
			st.Bins = rt.Len()
			if err := em.Emit(rt, role, inc); err != nil {
				st.Err = err
				r.logf("⚠ %s @ %v: %v\n", role, inc, err)
			} else {
				r.logf("✓ %s @ %v: %d bins\n", role, inc, st.Bins)
			}
			sum.Pairs = append(sum.Pairs, st)
		}
	}
	return sum
}
