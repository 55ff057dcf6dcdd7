// Package tb models translation blocks discovered in a QEMU hotblocks-style
// execution profile and correlates them with the binary's disassembly.
package tb

import (
	"fmt"
	"strings"
)

// Instruction is one decoded instruction occurrence from the disassembly
// stream. Immutable once created; blocks share instructions by address, so
// an instruction may belong to more than one overlapping block.
type Instruction struct {
	Addr     uint64
	Mnemonic string
	Operands string
	Width    int // encoding length in bytes
}

func (i Instruction) String() string {
	if i.Operands == "" {
		return fmt.Sprintf("%#x %s", i.Addr, i.Mnemonic)
	}
	return fmt.Sprintf("%#x %s %s", i.Addr, i.Mnemonic, i.Operands)
}

// Block is one translation block. Identity is the start pc. Counts come from
// the profiling log; Symbol, Label and Insns are filled in by the correlator.
type Block struct {
	Pc     uint64
	Tcount uint64 // times the runtime translated the block
	Icount uint64 // declared instruction count (static length)
	Ecount uint64 // times the block was executed

	Symbol string // owning function name, demangled
	Label  string // "fn" or "fn+0xOFF", empty until correlated

	Insns []uint64 // instruction addresses, in disassembly order
}

// Weight is the block's contribution to total dynamic execution.
func (b *Block) Weight() uint64 {
	return b.Icount * b.Ecount
}

// FuncName returns the leading function-name component of the block's
// location label, or "" when the block was never reached by disassembly.
func (b *Block) FuncName() string {
	if b.Label == "" {
		return ""
	}
	if i := strings.IndexByte(b.Label, '+'); i >= 0 {
		return b.Label[:i]
	}
	return b.Label
}

// Table is the keyed store of discovered blocks plus the shared instruction
// index. It is written by the log parser and the correlator only; filtering
// and analyses operate on read-only views.
type Table struct {
	blocks map[uint64]*Block
	order  []uint64 // insertion order; log order is hotness order

	insns map[uint64]Instruction

	// TotalIcount is Σ icount×ecount over every parsed log record, i.e. the
	// dynamic instruction count of the whole profile.
	TotalIcount uint64

	// Profiled is false in binary-only mode, where blocks are synthesized
	// from function symbols instead of log records.
	Profiled bool

	// icountMismatch remembers pcs already warned about, so a repeated
	// static-length disagreement is reported once per block.
	icountMismatch map[uint64]bool
}

func NewTable() *Table {
	return &Table{
		blocks:         make(map[uint64]*Block),
		insns:          make(map[uint64]Instruction),
		icountMismatch: make(map[uint64]bool),
	}
}

// Lookup returns the block starting at pc, if any.
func (t *Table) Lookup(pc uint64) (*Block, bool) {
	b, ok := t.blocks[pc]
	return b, ok
}

// Blocks returns the blocks in insertion order. The slice is fresh; the
// blocks are shared.
func (t *Table) Blocks() []*Block {
	out := make([]*Block, 0, len(t.order))
	for _, pc := range t.order {
		out = append(out, t.blocks[pc])
	}
	return out
}

// Len reports the number of blocks in the table.
func (t *Table) Len() int { return len(t.order) }

// Insn returns the instruction at addr from the shared index.
func (t *Table) Insn(addr uint64) (Instruction, bool) {
	in, ok := t.insns[addr]
	return in, ok
}

// putInsn records an instruction in the shared index. Re-disassembling the
// same address overwrites the previous record without comment.
func (t *Table) putInsn(in Instruction) {
	t.insns[in.Addr] = in
}

// addBlock inserts a new block or accumulates counts into an existing one.
// The first-seen icount is retained; a disagreement warns once per pc.
func (t *Table) addBlock(pc, tcount, icount, ecount uint64) *Block {
	b, ok := t.blocks[pc]
	if !ok {
		b = &Block{Pc: pc, Tcount: tcount, Icount: icount, Ecount: ecount}
		t.blocks[pc] = b
		t.order = append(t.order, pc)
		return b
	}
	b.Tcount += tcount
	b.Ecount += ecount
	if icount != b.Icount && !t.icountMismatch[pc] {
		t.icountMismatch[pc] = true
		warnf("block %#x: icount %d disagrees with first-seen %d, keeping %d",
			pc, icount, b.Icount, b.Icount)
	}
	return b
}
