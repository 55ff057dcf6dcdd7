package analyze

import (
	"fmt"
	"io"

	"tbprof/internal/tb"
)

func init() { register(execAnalysis{}) }

// execAnalysis reports how much of the whole profile's dynamic execution the
// subset represents.
type execAnalysis struct{}

func (execAnalysis) Name() string { return "exec" }

func (execAnalysis) Run(w io.Writer, blocks []*tb.Block, tbl *tb.Table, args []string) error {
	weight := subsetWeight(blocks)
	pct := 0.0
	if tbl.TotalIcount > 0 {
		pct = 100 * float64(weight) / float64(tbl.TotalIcount)
	}
	fmt.Fprintf(w, "%d of %d dynamic instructions, %.2f%% of total execution\n",
		weight, tbl.TotalIcount, pct)
	return nil
}
