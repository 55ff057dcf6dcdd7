package analyze

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"

	"tbprof/internal/tb"
	"tbprof/internal/ui/colorize"
)

func init() { register(dumpAnalysis{}) }

// dumpAnalysis lists every block with its metadata and full instruction
// sequence.
type dumpAnalysis struct{}

func (dumpAnalysis) Name() string { return "dump" }

func (dumpAnalysis) Run(w io.Writer, blocks []*tb.Block, tbl *tb.Table, args []string) error {
	color := wantColor(w)

	for i, b := range blocks {
		label := b.Label
		if label == "" {
			label = "<not disassembled>"
		}
		fmt.Fprintf(w, "#%d block %#x %s tcount=%d icount=%d ecount=%d\n",
			i+1, b.Pc, label, b.Tcount, b.Icount, b.Ecount)
		for _, addr := range b.Insns {
			in, ok := tbl.Insn(addr)
			if !ok {
				continue
			}
			line := fmt.Sprintf("  %x: %s", in.Addr, insnText(in))
			if color {
				line = colorize.InstructionLine(line)
			}
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

func insnText(in tb.Instruction) string {
	if in.Operands == "" {
		return in.Mnemonic
	}
	return in.Mnemonic + "\t" + in.Operands
}

// wantColor enables colorized listings only for interactive terminals.
func wantColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
