package slha

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scanframe/internal/logging"
	"scanframe/internal/table"
)

func testdataPath(name string) string {
	_, f, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(f), "testdata", name)
}

func TestParse_Blocks(t *testing.T) {
	src := `
BLOCK MASS
  25  1.25E+02
Block nmix Q= 1.0E+03
  1 1  0.99
decay 25 4.0E-03
  1.0  2  5  -5
`
	doc, err := ParseBytes([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, ok := doc.Lookup("MASS", Index{25}); !ok || v != 125 {
		t.Errorf("MASS 25 = %v, %v; want 125, true", v, ok)
	}
	nmix, ok := doc.Block("NMIX")
	if !ok {
		t.Fatal("NMIX block not found")
	}
	if nmix.Q != 1000 {
		t.Errorf("NMIX Q = %v, want 1000", nmix.Q)
	}
	if v, ok := nmix.Get(Index{1, 1}); !ok || v != 0.99 {
		t.Errorf("NMIX 1 1 = %v, %v", v, ok)
	}
	if _, ok := doc.Block("DECAY"); ok {
		t.Error("DECAY must not be parsed as a block")
	}
	if nmix.Len() != 1 {
		t.Errorf("decay lines leaked into NMIX: Len() = %d", nmix.Len())
	}
}

func TestParse_File(t *testing.T) {
	doc, err := parseFile(t, "run_1.slha")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2 (SPINFO strings)", doc.Skipped)
	}
	if v, _ := doc.Lookup("MASS", Index{1000022}); v != 210.443851 {
		t.Errorf("D exponent: got %v, want 210.443851", v)
	}
	if v, ok := doc.Lookup("ALPHA", nil); !ok || v != -0.11382521 {
		t.Errorf("ALPHA = %v, %v", v, ok)
	}
}

func parseFile(t *testing.T, name string) (*Document, error) {
	t.Helper()
	f, err := os.Open(testdataPath(name))
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer f.Close()
	return Parse(f)
}

func TestParse_NoBlocks(t *testing.T) {
	if _, err := ParseBytes([]byte("just text\n")); !errors.Is(err, ErrNoBlocks) {
		t.Errorf("err = %v, want ErrNoBlocks", err)
	}
}

func TestParse_BlockWithoutName(t *testing.T) {
	if _, err := ParseBytes([]byte("BLOCK\n 1 2\n")); err == nil {
		t.Error("expected error for nameless block")
	}
}

func TestSelection_Columns(t *testing.T) {
	sel := Selection{
		{Block: "SMINPUTS", IDs: []Index{{1}}},
		{Block: "MASS", IDs: []Index{{25}, {6}, {24}}},
		{Block: "NMIX", IDs: []Index{{1, 1}}},
		{Block: "ALPHA", IDs: []Index{nil}},
	}
	want := []string{"SMINPUTS_1", "MASS_25", "MASS_6", "MASS_24", "NMIX_1_1", "ALPHA"}
	if diff := cmp.Diff(want, sel.Columns()); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
}

func TestExtract_File(t *testing.T) {
	sel := Selection{
		{Block: "MASS", IDs: []Index{{25}, {6}, {999}}},
		{Block: "NMIX", IDs: []Index{{1, 2}, {11}}},
		{Block: "HMIX", IDs: []Index{{1}}},
	}
	got, err := NewExtractor(sel, logging.Discard()).Extract(testdataPath("run_1.slha"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := table.Record{
		"MASS_25":  table.Num(125),
		"MASS_6":   table.Num(173.1),
		"MASS_999": table.Null(),
		"NMIX_1_2": table.Num(0.0324135701),
		"NMIX_11":  table.Null(),
		"HMIX_1":   table.Null(),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record (-want +got):\n%s", diff)
	}
}

func TestExtract_Garbage(t *testing.T) {
	sel := Selection{{Block: "MASS", IDs: []Index{{25}}}}
	_, err := NewExtractor(sel, logging.Discard()).Extract(testdataPath("garbage.slha"))
	if !errors.Is(err, ErrNoBlocks) {
		t.Errorf("err = %v, want ErrNoBlocks", err)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := NewExtractor(nil, logging.Discard()).Extract(filepath.Join(t.TempDir(), "nope.slha"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}
