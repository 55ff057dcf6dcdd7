// Package analyze runs named report modules over subsets of translation
// blocks. An analysis is a pure function of a block subset, the table's
// grand totals, and optional string arguments; it writes a text report and
// never mutates its input.
package analyze

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"tbprof/internal/tb"
)

// Analysis is one report module, selected by name at the CLI boundary.
type Analysis interface {
	Name() string
	Run(w io.Writer, blocks []*tb.Block, tbl *tb.Table, args []string) error
}

var registry = map[string]Analysis{}

func register(a Analysis) {
	registry[a.Name()] = a
}

// Lookup resolves an analysis by name. An unknown name is a configuration
// error.
func Lookup(name string) (Analysis, error) {
	a, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown analysis %q (have: %s)", name, strings.Join(Names(), ", "))
	}
	return a, nil
}

// Names lists the registered analyses, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Request is a parsed "name[:arg,arg...]" analysis specification.
type Request struct {
	Analysis Analysis
	Args     []string
}

// ParseRequest resolves one analysis spec.
func ParseRequest(spec string) (Request, error) {
	name, rest, hasArgs := strings.Cut(spec, ":")
	a, err := Lookup(name)
	if err != nil {
		return Request{}, err
	}
	var args []string
	if hasArgs && rest != "" {
		args = strings.Split(rest, ",")
	}
	return Request{Analysis: a, Args: args}, nil
}

// compileGlobs turns analysis arguments into glob matchers. A malformed
// pattern aborts the run; arguments are operator input.
func compileGlobs(args []string) ([]glob.Glob, error) {
	var globs []glob.Glob
	for _, pat := range args {
		g, err := glob.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pat, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// matchAny reports whether s matches one of the globs. An empty matcher set
// matches everything.
func matchAny(globs []glob.Glob, s string) bool {
	if len(globs) == 0 {
		return true
	}
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}

// subsetWeight is Σ icount×ecount over the subset.
func subsetWeight(blocks []*tb.Block) uint64 {
	var sum uint64
	for _, b := range blocks {
		sum += b.Weight()
	}
	return sum
}
