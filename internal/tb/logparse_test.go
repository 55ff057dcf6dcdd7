package tb

import (
	"strings"
	"testing"
)

const logHeader = `collected 3 entries in the hash table (showing up to 18446744073709551615)
pc, tcount, icount, ecount
`

func TestParseLogTotal(t *testing.T) {
	input := `guest boot noise
more noise before the header
collected 3 entries in the hash table (showing up to 18446744073709551615)
something between the headers
pc, tcount, icount, ecount
0x0000000000010184, 1, 3, 5
stray diagnostic from the plugin
0x00000000000101a0, 2, 10, 7
not, a, valid, line, at, all
0x00000000000101f0, 1, 4, 2
`
	tbl := NewTable()
	if err := ParseLog(strings.NewReader(input), tbl); err != nil {
		t.Fatalf("ParseLog failed: %v", err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("got %d blocks, want 3", tbl.Len())
	}
	want := uint64(3*5 + 10*7 + 4*2)
	if tbl.TotalIcount != want {
		t.Errorf("TotalIcount = %d, want %d", tbl.TotalIcount, want)
	}
	if !tbl.Profiled {
		t.Error("table not marked as profiled")
	}

	b, ok := tbl.Lookup(0x101a0)
	if !ok {
		t.Fatal("block 0x101a0 missing")
	}
	if b.Tcount != 2 || b.Icount != 10 || b.Ecount != 7 {
		t.Errorf("block 0x101a0 = %+v, want tcount=2 icount=10 ecount=7", b)
	}
}

func TestParseLogHotnessOrder(t *testing.T) {
	input := logHeader + `0x30, 1, 1, 300
0x10, 1, 1, 200
0x20, 1, 1, 100
`
	tbl := NewTable()
	if err := ParseLog(strings.NewReader(input), tbl); err != nil {
		t.Fatalf("ParseLog failed: %v", err)
	}

	var pcs []uint64
	for _, b := range tbl.Blocks() {
		pcs = append(pcs, b.Pc)
	}
	want := []uint64{0x30, 0x10, 0x20}
	for i := range want {
		if pcs[i] != want[i] {
			t.Fatalf("block order %#v, want %#v", pcs, want)
		}
	}
}

func TestParseLogAccumulates(t *testing.T) {
	first := logHeader + "0x10, 1, 3, 5\n"
	// The second run disagrees on icount; the first-seen value wins.
	second := logHeader + "0x10, 2, 4, 7\n"

	tbl := NewTable()
	if err := ParseLog(strings.NewReader(first), tbl); err != nil {
		t.Fatalf("first ParseLog failed: %v", err)
	}
	if err := ParseLog(strings.NewReader(second), tbl); err != nil {
		t.Fatalf("second ParseLog failed: %v", err)
	}

	if tbl.Len() != 1 {
		t.Fatalf("got %d blocks, want 1", tbl.Len())
	}
	b, _ := tbl.Lookup(0x10)
	if b.Tcount != 3 {
		t.Errorf("Tcount = %d, want 3", b.Tcount)
	}
	if b.Ecount != 12 {
		t.Errorf("Ecount = %d, want 12", b.Ecount)
	}
	if b.Icount != 3 {
		t.Errorf("Icount = %d, want first-seen 3", b.Icount)
	}
	want := uint64(3*5 + 4*7)
	if tbl.TotalIcount != want {
		t.Errorf("TotalIcount = %d, want %d", tbl.TotalIcount, want)
	}
}

func TestParseLogWithoutHeaders(t *testing.T) {
	tbl := NewTable()
	if err := ParseLog(strings.NewReader("no headers anywhere\n0x10, 1, 3, 5\n"), tbl); err != nil {
		t.Fatalf("ParseLog failed: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("entries were parsed without the headers: %d blocks", tbl.Len())
	}
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		line string
		ok   bool
		pc   uint64
	}{
		{"0x0000000000010184, 1, 3, 5", true, 0x10184},
		{"10184, 1, 3, 5", true, 0x10184},
		{"0x10184, 1, 3", false, 0},
		{"0x10184, 1, 3, 5, 9", false, 0},
		{"total, 1, 3, 5", false, 0},
		{"0x10184, one, 3, 5", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		pc, _, _, _, ok := parseEntry(tt.line)
		if ok != tt.ok {
			t.Errorf("parseEntry(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if ok && pc != tt.pc {
			t.Errorf("parseEntry(%q) pc = %#x, want %#x", tt.line, pc, tt.pc)
		}
	}
}
