package analyze

import (
	"fmt"
	"io"
	"strings"

	"tbprof/internal/tb"
)

func init() { register(badinsnAnalysis{}) }

// badinsnAnalysis flags self-referential moves: `mv` (or any fmv* variant)
// whose source and destination operands are textually identical. Compilers
// should not emit these; they usually point at a missed peephole or a
// deliberate alignment pad worth knowing about in hot code.
type badinsnAnalysis struct{}

func (badinsnAnalysis) Name() string { return "badinsn" }

func (badinsnAnalysis) Run(w io.Writer, blocks []*tb.Block, tbl *tb.Table, args []string) error {
	found := 0
	for _, b := range blocks {
		for _, addr := range b.Insns {
			in, ok := tbl.Insn(addr)
			if !ok || !isSelfMove(in) {
				continue
			}
			found++
			fmt.Fprintf(w, "%x: %s %s (ecount %d)\n", in.Addr, in.Mnemonic, in.Operands, b.Ecount)
		}
	}
	if found == 0 {
		fmt.Fprintln(w, "no self-referential moves")
	}
	return nil
}

func isSelfMove(in tb.Instruction) bool {
	if in.Mnemonic != "mv" && !strings.HasPrefix(in.Mnemonic, "fmv") {
		return false
	}
	ops := strings.SplitN(in.Operands, ",", 3)
	if len(ops) < 2 {
		return false
	}
	return strings.TrimSpace(ops[0]) == strings.TrimSpace(ops[1])
}
