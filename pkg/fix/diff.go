package fix

import (
	"fmt"
	"strings"
)

// Op is the kind of a diff line.
type Op int

const (
	OpKeep Op = iota
	OpAdd
	OpRemove
)

// prefix returns the unified-diff marker for the op.
func (o Op) prefix() byte {
	switch o {
	case OpAdd:
		return '+'
	case OpRemove:
		return '-'
	case OpKeep:
		return ' '
	default:
		return ' '
	}
}

// DiffLine is one line of a hunk.
type DiffLine struct {
	Op   Op
	Text string
}

// Hunk is a group of changes with surrounding context.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []DiffLine
}

// Diff is a line diff of a fixed file, shown instead of writing it.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// diffContext is the number of unchanged lines around each change.
const diffContext = 3

// Unified computes the diff between original and fixed text. It returns nil
// when the line sequences are equal.
func Unified(path string, original, fixed []byte) *Diff {
	before := splitLines(original)
	after := splitLines(fixed)

	ops := diffOps(before, after)

	diff := &Diff{Path: path}
	for _, op := range ops {
		switch op.Op {
		case OpAdd:
			diff.Additions++
		case OpRemove:
			diff.Deletions++
		case OpKeep:
		}
	}
	if diff.Additions == 0 && diff.Deletions == 0 {
		return nil
	}

	diff.Hunks = hunks(ops)
	return diff
}

// String renders the diff in unified format with a/ and b/ headers.
func (d *Diff) String() string {
	if d == nil {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, line := range h.Lines {
			b.WriteByte(line.Op.prefix())
			b.WriteString(line.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// splitLines splits on '\n' and drops the empty piece after a final newline.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// diffOps aligns the two sequences along their longest common subsequence.
func diffOps(before, after []string) []DiffLine {
	n, m := len(before), len(after)

	// lcs[i][j] is the LCS length of before[i:] and after[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if before[i] == after[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]DiffLine, 0, max(n, m))
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case before[i] == after[j]:
			ops = append(ops, DiffLine{OpKeep, before[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, DiffLine{OpRemove, before[i]})
			i++
		default:
			ops = append(ops, DiffLine{OpAdd, after[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, DiffLine{OpRemove, before[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, DiffLine{OpAdd, after[j]})
	}
	return ops
}

// hunks groups ops into hunks, joining changes separated by at most twice
// the context size.
func hunks(ops []DiffLine) []Hunk {
	var out []Hunk

	i := 0
	for i < len(ops) {
		for i < len(ops) && ops[i].Op == OpKeep {
			i++
		}
		if i == len(ops) {
			break
		}

		start := max(0, i-diffContext)
		end := i
		for end < len(ops) {
			if ops[end].Op != OpKeep {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].Op == OpKeep {
				run++
			}
			if run == len(ops) || run-end > 2*diffContext {
				break
			}
			end = run
		}
		stop := min(len(ops), end+diffContext)

		out = append(out, buildHunk(ops, start, stop))
		i = stop
	}

	return out
}

func buildHunk(ops []DiffLine, start, stop int) Hunk {
	h := Hunk{OldStart: 1, NewStart: 1}
	for _, op := range ops[:start] {
		if op.Op != OpAdd {
			h.OldStart++
		}
		if op.Op != OpRemove {
			h.NewStart++
		}
	}

	h.Lines = ops[start:stop]
	for _, op := range h.Lines {
		if op.Op != OpAdd {
			h.OldCount++
		}
		if op.Op != OpRemove {
			h.NewCount++
		}
	}
	return h
}
