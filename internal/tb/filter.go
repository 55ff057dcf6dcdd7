package tb

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// A filter narrows a block list. Filters never mutate blocks or the table;
// each stage returns a fresh slice.
type filter interface {
	apply(blocks []*Block) []*Block
}

// ApplyFilters runs the operator-specified filter chain strictly left to
// right. Spec syntax:
//
//	top:N              first N blocks in current order
//	fn:glob[,glob...]  owning-function name matches any glob
//	addr:a[,a...]      start pc equals a hex address or falls in a low-high range
//
// A spec that does not parse is a configuration error and aborts the run;
// filters are operator input and a typo must not silently yield a wrong set.
func ApplyFilters(blocks []*Block, specs []string, profiled bool) ([]*Block, error) {
	for _, spec := range specs {
		f, err := parseFilter(spec, profiled)
		if err != nil {
			return nil, err
		}
		in := len(blocks)
		blocks = f.apply(blocks)
		infof("filter %q: %d -> %d blocks", spec, in, len(blocks))
	}
	return blocks, nil
}

// SortByPc returns the blocks ordered by ascending start address. Used as an
// optional final pipeline stage.
func SortByPc(blocks []*Block) []*Block {
	out := append([]*Block(nil), blocks...)
	sort.Slice(out, func(i, j int) bool { return out[i].Pc < out[j].Pc })
	return out
}

func parseFilter(spec string, profiled bool) (filter, error) {
	kind, arg, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, fmt.Errorf("filter %q: expected kind:value", spec)
	}
	switch kind {
	case "top":
		if !profiled {
			return nil, fmt.Errorf("filter %q: top-N needs profile data to order blocks by hotness", spec)
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("filter %q: bad count %q", spec, arg)
		}
		return topFilter(n), nil
	case "fn":
		var globs []glob.Glob
		for _, pat := range strings.Split(arg, ",") {
			g, err := glob.Compile(pat)
			if err != nil {
				return nil, fmt.Errorf("filter %q: bad pattern %q: %w", spec, pat, err)
			}
			globs = append(globs, g)
		}
		return fnFilter(globs), nil
	case "addr":
		var ranges []addrRange
		for _, item := range strings.Split(arg, ",") {
			r, err := parseAddrRange(item)
			if err != nil {
				return nil, fmt.Errorf("filter %q: %w", spec, err)
			}
			ranges = append(ranges, r)
		}
		return addrFilter(ranges), nil
	}
	return nil, fmt.Errorf("unrecognized filter kind %q in %q", kind, spec)
}

type topFilter int

func (f topFilter) apply(blocks []*Block) []*Block {
	if int(f) >= len(blocks) {
		return append([]*Block(nil), blocks...)
	}
	return append([]*Block(nil), blocks[:f]...)
}

type fnFilter []glob.Glob

func (f fnFilter) apply(blocks []*Block) []*Block {
	var out []*Block
	for _, b := range blocks {
		for _, g := range f {
			if g.Match(b.Symbol) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// addrRange is inclusive on both ends; a single address has Lo == Hi.
type addrRange struct {
	Lo, Hi uint64
}

func parseAddrRange(s string) (addrRange, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	a, err := parseHex(lo)
	if err != nil {
		return addrRange{}, fmt.Errorf("bad address %q", s)
	}
	if !isRange {
		return addrRange{Lo: a, Hi: a}, nil
	}
	b, err := parseHex(hi)
	if err != nil || b < a {
		return addrRange{}, fmt.Errorf("bad address range %q", s)
	}
	return addrRange{Lo: a, Hi: b}, nil
}

func parseHex(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "0x"), 16, 64)
}

type addrFilter []addrRange

func (f addrFilter) apply(blocks []*Block) []*Block {
	var out []*Block
	for _, b := range blocks {
		for _, r := range f {
			if b.Pc >= r.Lo && b.Pc <= r.Hi {
				out = append(out, b)
				break
			}
		}
	}
	return out
}
