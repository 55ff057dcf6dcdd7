// Package colorize applies terminal syntax highlighting to disassembly
// listings produced by the dump analysis.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// getAssemblyLexer returns an assembly lexer with fallbacks. GAS handles
// RISC-V listings acceptably; chroma has no dedicated riscv lexer.
func getAssemblyLexer() chroma.Lexer {
	candidates := []string{"gas", "GAS", "armasm", "nasm"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func getStyle() *chroma.Style {
	candidates := []string{"dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

func disabled() bool {
	return os.Getenv("TBPROF_NO_COLOR") != ""
}

// InstructionLine colorizes a single "addr: mnemonic operands" listing line,
// keeping the address in gray and letting chroma handle the rest.
func InstructionLine(line string) string {
	if disabled() {
		return line
	}

	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	rest := line[len(indent):]

	addr, body, ok := strings.Cut(rest, ": ")
	if !ok || !isHex(addr) {
		return indent + colorizeText(rest)
	}

	addrColored := fmt.Sprintf("\033[38;2;79;79;79m%s:\033[0m", addr)
	return indent + addrColored + " " + colorizeText(body)
}

func colorizeText(code string) string {
	lexer := getAssemblyLexer()
	if lexer == nil {
		return code
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getStyle(), iterator); err != nil {
		return code
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')) {
			return false
		}
	}
	return true
}
