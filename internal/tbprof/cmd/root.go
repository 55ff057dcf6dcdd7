package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"tbprof/internal/analyze"
	"tbprof/internal/disasm"
	"tbprof/internal/tb"
	"tbprof/internal/tbprof/log"
)

var rootCmd = &cobra.Command{
	Use:   "tbprof [binary]",
	Short: "Correlate a hotblocks execution profile with disassembly",
	Long: `tbprof correlates the translation-block execution profile emitted by the
QEMU hotblocks plugin with the binary's objdump disassembly, then runs the
requested analyses over the correlated blocks.

Without --log it runs in binary-only mode, synthesizing one block per
function symbol.`,
	Example: `
# Where did the time go, per function?
tbprof --log hot.log --all exec --per-function exec ./a.out

# Weighted mnemonic histogram of the ten hottest blocks
tbprof --log hot.log --filter top:10 --all mnemonic ./a.out

# Instruction-type breakdown of one function, from a saved listing
tbprof --disasm a.dis --log hot.log --filter 'fn:crc32*' --all itype
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		log.Setup(debug)

		logs, _ := cmd.Flags().GetStringArray("log")
		disasmPath, _ := cmd.Flags().GetString("disasm")
		tool, _ := cmd.Flags().GetString("objdump")
		filters, _ := cmd.Flags().GetStringArray("filter")
		sortAddr, _ := cmd.Flags().GetBool("sort-addr")

		// Resolve analysis requests up front: an unknown report name is a
		// configuration error and must abort before any work happens.
		sections, err := parseSections(cmd)
		if err != nil {
			return err
		}

		table := tb.NewTable()
		for _, path := range logs {
			if err := parseLogFile(path, table); err != nil {
				return err
			}
		}

		src, err := openDisasm(disasmPath, tool, args)
		if err != nil {
			return err
		}
		n, err := tb.Correlate(src, table)
		if cerr := src.Close(); err == nil && cerr != nil {
			// The disassembler exiting nonzero invalidates the stream we
			// just consumed.
			err = cerr
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("disassembly stream contained no instructions")
		}

		blocks, err := tb.ApplyFilters(table.Blocks(), filters, table.Profiled)
		if err != nil {
			return err
		}
		if sortAddr {
			blocks = tb.SortByPc(blocks)
		}

		return report(os.Stdout, sections, blocks, table)
	},
}

// section pairs a subset generator with the analyses requested for it.
type section struct {
	generate func([]*tb.Block) []analyze.Subset
	requests []analyze.Request
}

func parseSections(cmd *cobra.Command) ([]section, error) {
	flags := []struct {
		name     string
		generate func([]*tb.Block) []analyze.Subset
	}{
		{"all", analyze.Whole},
		{"per-block", analyze.PerBlock},
		{"per-function", analyze.PerFunction},
	}

	var sections []section
	for _, f := range flags {
		specs, _ := cmd.Flags().GetStringArray(f.name)
		if len(specs) == 0 {
			continue
		}
		s := section{generate: f.generate}
		for _, spec := range specs {
			req, err := analyze.ParseRequest(spec)
			if err != nil {
				return nil, err
			}
			s.requests = append(s.requests, req)
		}
		sections = append(sections, s)
	}

	if len(sections) == 0 {
		// Default report: how much of the profile the block set covers.
		req, err := analyze.ParseRequest("exec")
		if err != nil {
			return nil, err
		}
		sections = []section{{generate: analyze.Whole, requests: []analyze.Request{req}}}
	}
	return sections, nil
}

func parseLogFile(path string, table *tb.Table) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening profile log: %w", err)
		}
		defer f.Close()
		r = f
	}
	return tb.ParseLog(r, table)
}

func openDisasm(disasmPath, tool string, args []string) (disasm.Source, error) {
	if disasmPath != "" {
		return disasm.FromFile(disasmPath)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("need a binary to disassemble or --disasm with a saved listing")
	}
	return disasm.Run(tool, args[0])
}

func report(w io.Writer, sections []section, blocks []*tb.Block, table *tb.Table) error {
	for _, s := range sections {
		for _, subset := range s.generate(blocks) {
			for _, req := range s.requests {
				fmt.Fprintf(w, "--- %s: %s ---\n", req.Analysis.Name(), subset.Title)
				if err := req.Analysis.Run(w, subset.Blocks, table, req.Args); err != nil {
					return err
				}
				fmt.Fprintln(w)
			}
		}
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().StringArrayP("log", "l", nil, "Profiling log file (repeatable, accumulates; - for stdin)")
	rootCmd.Flags().String("disasm", "", "Pre-captured disassembly listing instead of running objdump (- for stdin)")
	rootCmd.Flags().String("objdump", "", "Disassembler to run (default "+disasm.DefaultTool+")")
	rootCmd.Flags().StringArrayP("filter", "f", nil, "Block filter, applied in order: top:N, fn:glob[,glob], addr:hex[-hex][,...]")
	rootCmd.Flags().Bool("sort-addr", false, "Sort surviving blocks by ascending start address")
	rootCmd.Flags().StringArrayP("all", "a", nil, "Analysis to run over the whole block set: name[:arg,arg]")
	rootCmd.Flags().StringArray("per-block", nil, "Analysis to run once per block")
	rootCmd.Flags().StringArray("per-function", nil, "Analysis to run once per owning function")
}

func Execute() {
	// Bypass fang's rendering when output is being piped so reports stay
	// plain text.
	if !term.IsTerminal(os.Stdout.Fd()) {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
