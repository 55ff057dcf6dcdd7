package tb

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ianlancetaylor/demangle"
)

// objdump line shapes. Symbol definitions look like
//
//	0000000000010184 <main>:
//
// and instruction lines like
//
//	10186:	e406                	sd	ra,8(sp)
var (
	symbolRe = regexp.MustCompile(`^([0-9a-fA-F]+) <(.+)>:$`)
	insnRe   = regexp.MustCompile(`^\s+([0-9a-fA-F]+):\s+([0-9a-fA-F]+)\s+(\S+)\s*(.*)$`)
)

// active pairs an open block with its remaining instruction budget.
type active struct {
	b         *Block
	remaining uint64
}

// Correlator streams disassembler output and appends each instruction to
// every block open at that address, in a single forward pass. Overlapping
// blocks are handled by keeping all of them active simultaneously.
type Correlator struct {
	table *Table

	fn     string // current owning function, demangled
	fnBase uint64
	haveFn bool

	open []active

	processed int
}

func NewCorrelator(t *Table) *Correlator {
	return &Correlator{table: t}
}

// Correlate consumes one address-ordered disassembly stream into t and
// returns the number of instructions processed.
func Correlate(r io.Reader, t *Table) (int, error) {
	return NewCorrelator(t).Run(r)
}

// Run consumes the stream line by line. It returns a fatal error only for
// an instruction that cannot be attributed to any function symbol.
func (c *Correlator) Run(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()

		if m := symbolRe.FindStringSubmatch(line); m != nil {
			addr, err := strconv.ParseUint(m[1], 16, 64)
			if err != nil {
				warnf("symbol %q with unparsable address %q", m[2], m[1])
				continue
			}
			c.enterFunction(addr, m[2])
			continue
		}

		if m := insnRe.FindStringSubmatch(line); m != nil {
			if err := c.instruction(m); err != nil {
				return c.processed, err
			}
			continue
		}

		if isBoilerplate(line) {
			continue
		}

		// Anything else means the disassembler's format drifted; surface it
		// so the operator can audit, but keep going.
		infof("unexpected disassembly line: %q", line)
	}
	if err := sc.Err(); err != nil {
		return c.processed, fmt.Errorf("reading disassembly: %w", err)
	}

	c.finish()
	return c.processed, nil
}

// enterFunction switches the owning-function context. In binary-only mode it
// also synthesizes a block spanning the whole function, which becomes the
// sole active block until the next symbol.
func (c *Correlator) enterFunction(addr uint64, name string) {
	c.fn = demangle.Filter(name)
	c.fnBase = addr
	c.haveFn = true

	if !c.table.Profiled {
		b := c.table.addBlock(addr, 1, 0, 1)
		b.Symbol = c.fn
		b.Label = c.fn
		c.open = c.open[:0]
		c.open = append(c.open, active{b: b})
	}
}

func (c *Correlator) instruction(m []string) error {
	addr, err := strconv.ParseUint(m[1], 16, 64)
	if err != nil {
		return fmt.Errorf("instruction with unparsable address %q", m[1])
	}
	if !c.haveFn {
		return fmt.Errorf("instruction at %#x outside any function symbol", addr)
	}

	in := Instruction{
		Addr:     addr,
		Mnemonic: m[3],
		Operands: strings.TrimSpace(m[4]),
		Width:    len(m[2]) / 2,
	}
	c.table.putInsn(in)
	c.processed++

	if !c.table.Profiled {
		// Single synthetic block per function; its static length grows with
		// the stream.
		b := c.open[0].b
		b.Insns = append(b.Insns, addr)
		b.Icount++
		c.table.TotalIcount++
		return nil
	}

	// A profiled block starting here becomes active with a budget of its
	// declared length, and learns its location from the current context.
	if b, ok := c.table.Lookup(addr); ok {
		b.Symbol = c.fn
		b.Label = location(c.fn, c.fnBase, addr)
		c.open = append(c.open, active{b: b, remaining: b.Icount})
	}

	// Append to every open block, pruning those whose budget runs out.
	kept := c.open[:0]
	for _, a := range c.open {
		if a.remaining == 0 {
			continue
		}
		a.b.Insns = append(a.b.Insns, addr)
		a.remaining--
		if a.remaining > 0 {
			kept = append(kept, a)
		}
	}
	c.open = kept
	return nil
}

// finish reports blocks left under-populated when the stream ended. They are
// kept as-is: a truncated block is still worth analyzing.
func (c *Correlator) finish() {
	if c.table.Profiled {
		for _, a := range c.open {
			debugf("block %#x ended with %d of %d instructions collected",
				a.b.Pc, len(a.b.Insns), a.b.Icount)
		}
	}
	c.open = nil
}

func location(fn string, base, pc uint64) string {
	if pc == base {
		return fn
	}
	return fmt.Sprintf("%s+%#x", fn, pc-base)
}

// isBoilerplate recognizes the objdump framing we deliberately ignore.
func isBoilerplate(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return true
	case trimmed == "...":
		return true
	case strings.Contains(line, "file format elf"):
		return true
	case strings.HasPrefix(line, "Disassembly of section"):
		return true
	}
	return false
}
