package analyze

import (
	"fmt"
	"io"
	"sort"

	"tbprof/internal/tb"
)

func init() { register(mnemonicAnalysis{}) }

// mnemonicAnalysis prints an execution-weighted mnemonic histogram: every
// instruction occurrence contributes its block's ecount. Glob arguments
// restrict which mnemonics print.
type mnemonicAnalysis struct{}

func (mnemonicAnalysis) Name() string { return "mnemonic" }

func (mnemonicAnalysis) Run(w io.Writer, blocks []*tb.Block, tbl *tb.Table, args []string) error {
	globs, err := compileGlobs(args)
	if err != nil {
		return err
	}

	counts := make(map[string]uint64)
	for _, b := range blocks {
		for _, addr := range b.Insns {
			in, ok := tbl.Insn(addr)
			if !ok {
				continue
			}
			counts[in.Mnemonic] += b.Ecount
		}
	}

	type row struct {
		mnemonic string
		count    uint64
	}
	rows := make([]row, 0, len(counts))
	for m, n := range counts {
		if !matchAny(globs, m) {
			continue
		}
		rows = append(rows, row{m, n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].mnemonic < rows[j].mnemonic
	})

	for _, r := range rows {
		fmt.Fprintf(w, "%-12s %d\n", r.mnemonic, r.count)
	}
	return nil
}
