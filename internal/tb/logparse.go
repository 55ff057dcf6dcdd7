package tb

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The hotblocks plugin announces its result table with a header line before
// the column header. Everything else around them is noise from the guest or
// the emulator and is skipped.
var collectedRe = regexp.MustCompile(`^collected (\d+) entries in the hash table \(showing up to (\d+)\)$`)

const columnHeader = "pc, tcount, icount, ecount"

type logState int

const (
	seekingHeader1 logState = iota
	seekingHeader2
	parsingEntries
)

// ParseLog consumes one profiling-log stream into the table. The parser is a
// forward-only state machine: it advances only on a positive match and never
// fails on unexpected content, so interleaved program output is harmless.
// Multiple logs may be parsed into the same table; counts accumulate.
func ParseLog(r io.Reader, t *Table) error {
	t.Profiled = true

	state := seekingHeader1
	records := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()

		switch state {
		case seekingHeader1:
			m := collectedRe.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				continue
			}
			if max, err := strconv.ParseUint(m[2], 10, 64); err == nil && max != math.MaxUint64 {
				warnf("profile shows at most %s of %s collected blocks, results are truncated", m[2], m[1])
			}
			state = seekingHeader2

		case seekingHeader2:
			if strings.TrimSpace(line) == columnHeader {
				state = parsingEntries
			}

		case parsingEntries:
			pc, tcount, icount, ecount, ok := parseEntry(line)
			if !ok {
				// Tool diagnostics and unrelated output interleave freely
				// with the entry lines; skip them.
				continue
			}
			t.addBlock(pc, tcount, icount, ecount)
			t.TotalIcount += icount * ecount
			records++
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading profile log: %w", err)
	}

	switch state {
	case seekingHeader1:
		warnf("profile log contained no result header")
	case seekingHeader2:
		warnf("profile log result header was not followed by a column header")
	default:
		debugf("parsed %d profile records, %d blocks total", records, t.Len())
	}
	return nil
}

// parseEntry splits one "hex_pc, int, int, int" record.
func parseEntry(line string) (pc, tcount, icount, ecount uint64, ok bool) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return 0, 0, 0, 0, false
	}
	pc, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(fields[0]), "0x"), 16, 64)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	nums := [3]uint64{}
	for i, f := range fields[1:] {
		n, err := strconv.ParseUint(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return 0, 0, 0, 0, false
		}
		nums[i] = n
	}
	return pc, nums[0], nums[1], nums[2], true
}
