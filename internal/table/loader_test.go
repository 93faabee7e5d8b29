package table

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

func TestLoadCSV(t *testing.T) {
	p := writeFixture(t, "gisp2.csv",
		"Depth (m),Age_kyr,Dust,Site\n"+
			"0.5,1,10,sA\n"+
			"1.5,2,,sA\n"+
			"2.5,3,30,sB\n")
	tbl, err := Load(p, DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Name != "gisp2" {
		t.Fatalf("expected base name gisp2, got %q", tbl.Name)
	}
	if tbl.Len() != 3 || len(tbl.Columns) != 4 {
		t.Fatalf("expected 3x4 table, got %dx%d", tbl.Len(), len(tbl.Columns))
	}
	depth, ok := tbl.Column("Depth")
	if !ok || depth.Unit != "m" || !depth.Numeric {
		t.Fatalf("expected numeric Depth [m], got %+v", depth)
	}
	age, ok := tbl.Column("Age")
	if !ok || age.Unit != "kyr" {
		t.Fatalf("expected Age with kyr unit split from header, got %+v", age)
	}
	dust, _ := tbl.Column("Dust")
	if !math.IsNaN(dust.Values[1]) {
		t.Fatalf("empty cell must load as NaN, got %v", dust.Values[1])
	}
	site, _ := tbl.Column("Site")
	if site.Numeric {
		t.Fatalf("Site must classify as non-numeric")
	}
}

func TestLoadTSVAndTxtUseTabs(t *testing.T) {
	content := "Depth\tNa\n1\t2\n3\t4\n"
	for _, name := range []string{"core.tsv", "core.txt"} {
		p := writeFixture(t, name, content)
		tbl, err := Load(p, DefaultOptions())
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		na, ok := tbl.Column("Na")
		if !ok || na.Values[1] != 4 {
			t.Fatalf("%s: expected Na=[2 4], got %+v", name, na)
		}
	}
}

func TestLoadLocaleNumbers(t *testing.T) {
	p := writeFixture(t, "locale.csv",
		"Depth;Conc\n"+
			"0,5;1.000,5\n"+
			"1,5;2.000,5\n")
	opt := DefaultOptions()
	opt.Delimiter = ';'
	tbl, err := Load(p, opt)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	depth, _ := tbl.Column("Depth")
	if depth.Values[0] != 0.5 {
		t.Fatalf("expected comma decimal 0.5, got %v", depth.Values[0])
	}
	conc, _ := tbl.Column("Conc")
	if conc.Values[0] != 1000.5 {
		t.Fatalf("expected thousands separator stripped, got %v", conc.Values[0])
	}
}

func TestLoadRaggedRowsPadded(t *testing.T) {
	p := writeFixture(t, "ragged.csv", "Depth,Na,K\n1,2\n3,4,5\n")
	tbl, err := Load(p, DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	k, _ := tbl.Column("K")
	if len(k.Values) != 2 || !math.IsNaN(k.Values[0]) || k.Values[1] != 5 {
		t.Fatalf("short row must pad with NaN, got %v", k.Values)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	p := writeFixture(t, "core.parquet", "binary")
	_, err := Load(p, DefaultOptions())
	var want *UnsupportedFormatError
	if !errors.As(err, &want) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	p := writeFixture(t, "empty.csv", "")
	if _, err := Load(p, DefaultOptions()); err == nil {
		t.Fatalf("expected error for empty dataset")
	}
}

func TestSplitUnits(t *testing.T) {
	cases := []struct {
		in, name, unit string
	}{
		{"Depth (m)", "Depth", "m"},
		{"Dust [ppb]", "Dust", "ppb"},
		{"Age_kyr", "Age", "kyr"},
		{"Velocity", "Velocity", ""},
		{"ice_Depth", "ice_Depth", ""},
	}
	for _, c := range cases {
		name, unit := splitUnits(c.in)
		if name != c.name || unit != c.unit {
			t.Fatalf("splitUnits(%q) = %q,%q; want %q,%q", c.in, name, unit, c.name, c.unit)
		}
	}
}
