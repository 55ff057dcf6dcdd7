package analyze

import (
	"bytes"
	"strings"
	"testing"

	"tbprof/internal/tb"
)

const fixtureLog = `collected 1 entries in the hash table (showing up to 18446744073709551615)
pc, tcount, icount, ecount
0x10, 1, 3, 5
`

const fixtureDisasm = `0000000000000010 <hot>:
  10:	0001                	nop
  12:	852a                	mv	a0,a0
  14:	8082                	ret
`

func fixture(t *testing.T) (*tb.Table, []*tb.Block) {
	t.Helper()
	tbl := tb.NewTable()
	if err := tb.ParseLog(strings.NewReader(fixtureLog), tbl); err != nil {
		t.Fatalf("ParseLog failed: %v", err)
	}
	if _, err := tb.Correlate(strings.NewReader(fixtureDisasm), tbl); err != nil {
		t.Fatalf("Correlate failed: %v", err)
	}
	return tbl, tbl.Blocks()
}

func run(t *testing.T, name string, blocks []*tb.Block, tbl *tb.Table, args ...string) string {
	t.Helper()
	a, err := Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q) failed: %v", name, err)
	}
	var buf bytes.Buffer
	if err := a.Run(&buf, blocks, tbl, args); err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	return buf.String()
}

func TestExecFullCoverage(t *testing.T) {
	tbl, blocks := fixture(t)
	out := run(t, "exec", blocks, tbl)
	want := "15 of 15 dynamic instructions, 100.00% of total execution\n"
	if out != want {
		t.Errorf("exec output %q, want %q", out, want)
	}
}

func TestExecSubset(t *testing.T) {
	tbl := tb.NewTable()
	log := `collected 2 entries in the hash table (showing up to 18446744073709551615)
pc, tcount, icount, ecount
0x10, 1, 3, 5
0x20, 1, 5, 9
`
	if err := tb.ParseLog(strings.NewReader(log), tbl); err != nil {
		t.Fatalf("ParseLog failed: %v", err)
	}
	blocks := tbl.Blocks()
	out := run(t, "exec", blocks[:1], tbl)
	if !strings.Contains(out, "15 of 60") || !strings.Contains(out, "25.00%") {
		t.Errorf("exec output %q, want 15 of 60 at 25.00%%", out)
	}
}

func TestMnemonicHistogram(t *testing.T) {
	tbl, blocks := fixture(t)
	out := run(t, "mnemonic", blocks, tbl)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d histogram rows, want 3:\n%s", len(lines), out)
	}
	// Equal weights tie-break alphabetically.
	for i, want := range []string{"mv", "nop", "ret"} {
		fields := strings.Fields(lines[i])
		if len(fields) != 2 || fields[0] != want || fields[1] != "5" {
			t.Errorf("row %d = %q, want %q with weight 5", i, lines[i], want)
		}
	}
}

func TestMnemonicGlobRestriction(t *testing.T) {
	tbl, blocks := fixture(t)
	out := run(t, "mnemonic", blocks, tbl, "m*")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "mv") {
		t.Errorf("restricted histogram = %q, want only mv", out)
	}
}

func TestBadinsnFlagsSelfMove(t *testing.T) {
	tbl, blocks := fixture(t)
	out := run(t, "badinsn", blocks, tbl)
	if !strings.Contains(out, "12: mv a0,a0 (ecount 5)") {
		t.Errorf("badinsn output %q does not flag mv a0,a0", out)
	}
}

func TestBadinsnIgnoresRealMoves(t *testing.T) {
	tbl := tb.NewTable()
	disasm := `0000000000000010 <fn>:
  10:	852e                	mv	a0,a1
  12:	f2000553          	fmv.d.x	fa0,zero
  14:	22b51553          	fmv.d	fa0,fa0
`
	if _, err := tb.Correlate(strings.NewReader(disasm), tbl); err != nil {
		t.Fatalf("Correlate failed: %v", err)
	}
	out := run(t, "badinsn", tbl.Blocks(), tbl)
	if strings.Contains(out, "mv a0,a1") || strings.Contains(out, "fmv.d.x") {
		t.Errorf("badinsn flagged legitimate moves:\n%s", out)
	}
	if !strings.Contains(out, "fmv.d fa0,fa0") {
		t.Errorf("badinsn missed fmv.d fa0,fa0:\n%s", out)
	}
}

func TestItypeBreakdown(t *testing.T) {
	tbl, blocks := fixture(t)
	out := run(t, "itype", blocks, tbl)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	if !strings.HasPrefix(lines[0], "total") || !strings.Contains(lines[0], "15") {
		t.Fatalf("first line %q, want total of 15", lines[0])
	}

	wantRows := map[string]string{
		"i_alu":      "10", // nop + mv
		"i_jump":     "5",  // ret
		"compressed": "15", // all three are 2-byte encodings
	}
	for tag, count := range wantRows {
		found := false
		for _, line := range lines[1:] {
			fields := strings.Fields(line)
			if len(fields) >= 2 && fields[0] == tag {
				found = true
				if fields[1] != count {
					t.Errorf("tag %s count = %s, want %s", tag, fields[1], count)
				}
			}
		}
		if !found {
			t.Errorf("tag %s missing from breakdown:\n%s", tag, out)
		}
	}
}

func TestItypeIdempotent(t *testing.T) {
	tbl, blocks := fixture(t)
	first := run(t, "itype", blocks, tbl)
	second := run(t, "itype", blocks, tbl)
	if first != second {
		t.Errorf("itype output changed between runs:\n%s\n---\n%s", first, second)
	}
}

func TestItypeSpRelative(t *testing.T) {
	tbl := tb.NewTable()
	disasm := `0000000000000010 <fn>:
  10:	e406                	sd	ra,8(sp)
  12:	6522                	ld	a0,8(sp)
  14:	ff813083          	ld	ra,-8(s0)
`
	if _, err := tb.Correlate(strings.NewReader(disasm), tbl); err != nil {
		t.Fatalf("Correlate failed: %v", err)
	}
	out := run(t, "itype", tbl.Blocks(), tbl)

	tests := []struct {
		tag   string
		count string
	}{
		{"sp_store", "1"},
		{"sp_store_c", "1"},
		{"sp_load", "1"},
		{"sp_load_c", "1"},
		{"i_load", "2"},
	}
	for _, tt := range tests {
		found := false
		for _, line := range strings.Split(out, "\n") {
			fields := strings.Fields(line)
			if len(fields) >= 2 && fields[0] == tt.tag {
				found = true
				if fields[1] != tt.count {
					t.Errorf("tag %s count = %s, want %s", tt.tag, fields[1], tt.count)
				}
			}
		}
		if !found {
			t.Errorf("tag %s missing:\n%s", tt.tag, out)
		}
	}
}

func TestItypeUnclassified(t *testing.T) {
	tbl := tb.NewTable()
	disasm := `0000000000000010 <fn>:
  10:	0000000b        	custom.frob	a0,a1
`
	if _, err := tb.Correlate(strings.NewReader(disasm), tbl); err != nil {
		t.Fatalf("Correlate failed: %v", err)
	}
	out := run(t, "itype", tbl.Blocks(), tbl)
	if !strings.Contains(out, "unclassified") {
		t.Errorf("unknown mnemonic not counted under catch-all:\n%s", out)
	}
}

func TestItypeGlobRestriction(t *testing.T) {
	tbl, blocks := fixture(t)
	out := run(t, "itype", blocks, tbl, "i_*")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], "total") {
		t.Fatalf("total line must print regardless of restriction, got %q", lines[0])
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "i_") {
			t.Errorf("restricted output leaked tag row %q", line)
		}
	}
}

func TestDumpListsBlocks(t *testing.T) {
	tbl, blocks := fixture(t)
	out := run(t, "dump", blocks, tbl)
	for _, want := range []string{
		"#1 block 0x10 hot tcount=1 icount=3 ecount=5",
		"10: nop",
		"12: mv\ta0,a0",
		"14: ret",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalysesDoNotMutate(t *testing.T) {
	tbl, blocks := fixture(t)
	before := *blocks[0]
	for _, name := range Names() {
		run(t, name, blocks, tbl)
	}
	after := *blocks[0]
	if before.Pc != after.Pc || before.Ecount != after.Ecount ||
		before.Icount != after.Icount || len(before.Insns) != len(after.Insns) {
		t.Errorf("analysis mutated block: before %+v after %+v", before, after)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("nosuch"); err == nil {
		t.Error("unknown analysis name did not fail")
	}
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest("mnemonic:add*,mul*")
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Analysis.Name() != "mnemonic" {
		t.Errorf("analysis = %q, want mnemonic", req.Analysis.Name())
	}
	if len(req.Args) != 2 || req.Args[0] != "add*" || req.Args[1] != "mul*" {
		t.Errorf("args = %#v, want [add* mul*]", req.Args)
	}

	if _, err := ParseRequest("nosuch:x"); err == nil {
		t.Error("unknown analysis in request did not fail")
	}
}
