package analyze

import (
	"fmt"

	"tbprof/internal/tb"
)

// Subset pairs a report heading with the blocks the analyses run against.
type Subset struct {
	Title  string
	Blocks []*tb.Block
}

// Whole yields the filtered list unchanged, as a single subset.
func Whole(blocks []*tb.Block) []Subset {
	return []Subset{{Title: fmt.Sprintf("all blocks (%d)", len(blocks)), Blocks: blocks}}
}

// PerBlock yields one singleton subset per block, in list order.
func PerBlock(blocks []*tb.Block) []Subset {
	out := make([]Subset, 0, len(blocks))
	for _, b := range blocks {
		title := fmt.Sprintf("block %#x", b.Pc)
		if b.Label != "" {
			title = fmt.Sprintf("block %#x (%s)", b.Pc, b.Label)
		}
		out = append(out, Subset{Title: title, Blocks: []*tb.Block{b}})
	}
	return out
}

// PerFunction groups blocks by the function-name component of their location
// label, in order of first appearance. Blocks never reached by the
// disassembly have no label and are excluded.
func PerFunction(blocks []*tb.Block) []Subset {
	byFn := make(map[string]int)
	var out []Subset
	for _, b := range blocks {
		fn := b.FuncName()
		if fn == "" {
			continue
		}
		i, ok := byFn[fn]
		if !ok {
			i = len(out)
			byFn[fn] = i
			out = append(out, Subset{Title: fmt.Sprintf("function %s", fn)})
		}
		out[i].Blocks = append(out[i].Blocks, b)
	}
	return out
}
