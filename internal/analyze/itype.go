package analyze

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"tbprof/internal/logging"
	"tbprof/internal/riscv"
	"tbprof/internal/tb"
)

func init() { register(itypeAnalysis{}) }

// itypeAnalysis breaks the subset's weighted execution down by instruction
// classification. Every instruction occurrence adds its block's ecount to
// each of the mnemonic's tags, to a compressed/standard tag derived from the
// encoding width, and, for sp-relative memory operands, to a stack-access
// sub-tag. Mnemonics missing from the classification table are diagnosed and
// counted under the catch-all tag. Glob arguments restrict which tags print;
// the grand-total line always prints first.
type itypeAnalysis struct{}

func (itypeAnalysis) Name() string { return "itype" }

func (itypeAnalysis) Run(w io.Writer, blocks []*tb.Block, tbl *tb.Table, args []string) error {
	globs, err := compileGlobs(args)
	if err != nil {
		return err
	}

	counts := make(map[string]uint64)
	var total uint64
	unknown := make(map[string]bool)

	for _, b := range blocks {
		for _, addr := range b.Insns {
			in, ok := tbl.Insn(addr)
			if !ok {
				continue
			}
			total += b.Ecount

			tags := riscv.Classes(in.Mnemonic)
			if tags == nil {
				if !unknown[in.Mnemonic] {
					unknown[in.Mnemonic] = true
					logging.Default().Warnf("unclassified mnemonic %q", in.Mnemonic)
				}
				counts[riscv.Unclassified] += b.Ecount
			}
			for _, tag := range tags {
				counts[tag] += b.Ecount
			}

			compressed := in.Width == 2
			if compressed {
				counts["compressed"] += b.Ecount
			} else {
				counts["standard"] += b.Ecount
			}

			if spRelative(in.Operands) {
				switch {
				case riscv.IsLoad(in.Mnemonic):
					counts["sp_load"] += b.Ecount
					if compressed {
						counts["sp_load_c"] += b.Ecount
					}
				case riscv.IsStore(in.Mnemonic):
					counts["sp_store"] += b.Ecount
					if compressed {
						counts["sp_store_c"] += b.Ecount
					}
				}
			}
		}
	}

	fmt.Fprintf(w, "%-12s %12d  100.00%%\n", "total", total)

	type row struct {
		tag   string
		count uint64
	}
	rows := make([]row, 0, len(counts))
	for tag, n := range counts {
		if n == 0 || !matchAny(globs, tag) {
			continue
		}
		rows = append(rows, row{tag, n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].tag < rows[j].tag
	})

	for _, r := range rows {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(r.count) / float64(total)
		}
		fmt.Fprintf(w, "%-12s %12d  %6.2f%%\n", r.tag, r.count, pct)
	}
	return nil
}

// spRelative recognizes the `off(sp)` memory-operand idiom.
func spRelative(operands string) bool {
	return strings.Contains(operands, "(sp)")
}
