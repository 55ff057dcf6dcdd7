// Package disasm produces the disassembly text stream the correlator
// consumes, either by running objdump or by reading a pre-captured listing.
package disasm

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"tbprof/internal/logging"
)

// DefaultTool is the disassembler invoked when the operator does not name
// one. Cross-compiled targets usually need a prefixed binutils, e.g.
// riscv64-linux-gnu-objdump.
const DefaultTool = "objdump"

// Source is a disassembly text stream. Close must be called after the
// stream is exhausted; it reports the producing process's failure, which is
// fatal for the run.
type Source interface {
	io.Reader
	Close() error
}

// Run starts `tool -d binary` and returns its stdout as a Source. The
// tool's stderr passes through to ours so its diagnostics stay visible.
func Run(tool, binary string) (Source, error) {
	if tool == "" {
		tool = DefaultTool
	}
	cmd := exec.Command(tool, "-d", binary)
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("piping %s: %w", tool, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", tool, err)
	}
	logging.Default().Debugf("running %s -d %s", tool, binary)
	return &process{cmd: cmd, stdout: stdout}, nil
}

type process struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

func (p *process) Read(b []byte) (int, error) { return p.stdout.Read(b) }

// Close waits for the disassembler and propagates a nonzero exit as an
// error once the stream is exhausted.
func (p *process) Close() error {
	if err := p.cmd.Wait(); err != nil {
		return fmt.Errorf("%s failed: %w", p.cmd.Path, err)
	}
	return nil
}

// FromFile opens a pre-captured disassembly listing; "-" reads stdin.
func FromFile(path string) (Source, error) {
	if path == "-" {
		return nopSource{os.Stdin}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening disassembly: %w", err)
	}
	return f, nil
}

type nopSource struct{ io.Reader }

func (nopSource) Close() error { return nil }
