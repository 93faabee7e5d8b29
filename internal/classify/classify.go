// Package classify maps raw column names onto the semantic axes a dataset
// can be resampled along: depth below surface, or age/year.
package classify

import (
	"fmt"
	"strings"
)

// Role is a semantic resampling axis.
type Role string

const (
	Depth Role = "Depth"
	// Year covers age-, year- and time-like columns. Artifacts label the
	// role "Year" whatever the matched column is called.
	Year Role = "Year"
)

// AllRoles is the fixed role set behind an "all"/"both" request.
var AllRoles = []Role{Depth, Year}

// Synonyms maps each role to the case-sensitive tokens recognized as a
// prefix or suffix of a column name.
type Synonyms map[Role][]string

// DefaultSynonyms returns the stock synonym sets.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		Depth: {"depth", "Depth", "DEPTH"},
		Year:  {"year", "Year", "age", "Age", "Time", "YEAR", "AGE"},
	}
}

// NoColumnForRoleError indicates a requested role matched no column.
type NoColumnForRoleError struct{ Role Role }

func (e *NoColumnForRoleError) Error() string {
	return fmt.Sprintf("no column matches role %s", e.Role)
}

// AmbiguousColumnError indicates a column name matched more than one role's
// synonym set; such a column is excluded from every role it matched.
type AmbiguousColumnError struct {
	Column string
	Roles  []Role
}

func (e *AmbiguousColumnError) Error() string {
	names := make([]string, len(e.Roles))
	for i, r := range e.Roles {
		names[i] = string(r)
	}
	return fmt.Sprintf("column %q matches multiple roles (%s); excluded from all of them",
		e.Column, strings.Join(names, ", "))
}

// Result is the outcome of classifying one dataset's columns.
type Result struct {
	// Matched holds, per requested role, the matching column names in
	// header order. Roles with no match are absent.
	Matched map[Role][]string
	// Missing lists requested roles with no matching column.
	Missing []*NoColumnForRoleError
	// Ambiguous lists columns excluded because they matched several roles.
	Ambiguous []*AmbiguousColumnError
}

// Axis returns the resampling axis for a role: the first matching column in
// header order. Later matches stay in the table as ordinary dependents.
func (r *Result) Axis(role Role) (string, bool) {
	cols := r.Matched[role]
	if len(cols) == 0 {
		return "", false
	}
	return cols[0], true
}

// Classify scans column names for each requested role. A name matches when
// it starts or ends with one of the role's synonyms; matching is
// case-sensitive and substring-based, so "Depth_cm" and "ice_Depth" both
// classify as Depth while "Velocity" does not.
func Classify(columnNames []string, roles []Role, syn Synonyms) *Result {
	res := &Result{Matched: map[Role][]string{}}
	for _, name := range columnNames {
		var hits []Role
		for _, role := range roles {
			if matches(name, syn[role]) {
				hits = append(hits, role)
			}
		}
		switch len(hits) {
		case 0:
		case 1:
			res.Matched[hits[0]] = append(res.Matched[hits[0]], name)
		default:
			res.Ambiguous = append(res.Ambiguous, &AmbiguousColumnError{Column: name, Roles: hits})
		}
	}
	for _, role := range roles {
		if len(res.Matched[role]) == 0 {
			res.Missing = append(res.Missing, &NoColumnForRoleError{Role: role})
		}
	}
	return res
}

func matches(name string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.HasPrefix(name, tok) || strings.HasSuffix(name, tok) {
			return true
		}
	}
	return false
}

// ParseByToken maps the user's <by> argument to the requested role set.
// Token spellings follow prefix rules: "depth..."/"Depth..." selects Depth,
// year/age/time spellings select Year, and all/both spellings select both.
func ParseByToken(tok string) ([]Role, error) {
	switch {
	case hasAnyPrefix(tok, "depth", "Depth", "DEPTH"):
		return []Role{Depth}, nil
	case hasAnyPrefix(tok, "year", "Year", "age", "Age", "Time", "time", "YEAR", "AGE"):
		return []Role{Year}, nil
	case hasAnyPrefix(tok, "all", "All", "ALL", "both", "Both", "BOTH"):
		return AllRoles, nil
	}
	return nil, fmt.Errorf("cannot resample by %q: use depth, age/year, or all", tok)
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
