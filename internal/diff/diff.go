// Package diff computes line-level diffs between two text blobs using
// LCS alignment. It is pure: no I/O, no shared state, total over any
// pair of finite inputs.
package diff

import "strings"

// Kind classifies a single line op.
type Kind int

const (
	Equal Kind = iota
	Added
	Deleted
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Prefix returns the unified-diff marker for the kind.
func (k Kind) Prefix() string {
	switch k {
	case Added:
		return "+"
	case Deleted:
		return "-"
	default:
		return " "
	}
}

// LineOp is one unit of diff output.
type LineOp struct {
	Kind    Kind
	Text    string // line content, no trailing newline
	OldLine int    // 1-based position in before; 0 when Kind == Added
	NewLine int    // 1-based position in after; 0 when Kind == Deleted
}

// Diff bundles the ops for one file edit, for rendering.
type Diff struct {
	Path      string
	OldText   string
	NewText   string
	Ops       []LineOp
	Added     int
	Deleted   int
	Truncated bool // set by callers that cap input size
}

// SplitLines splits text into lines on "\n", tolerating CRLF.
// An empty string is one empty line, matching strings.Split.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ComputeText splits both sides with SplitLines and diffs them.
func ComputeText(before, after string) []LineOp {
	return Compute(SplitLines(before), SplitLines(after))
}

// Compute returns the LCS alignment of before and after as a forward
// sequence of ops. Ties between an equal-value add and delete resolve
// to Added, so the result is deterministic for a given input pair.
func Compute(before, after []string) []LineOp {
	m, n := len(before), len(after)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if before[i-1] == after[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] > dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	// Backtrack from (m,n); ops come out reversed.
	var ops []LineOp
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && before[i-1] == after[j-1]:
			ops = append(ops, LineOp{Kind: Equal, Text: before[i-1], OldLine: i, NewLine: j})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			ops = append(ops, LineOp{Kind: Added, Text: after[j-1], NewLine: j})
			j--
		default:
			ops = append(ops, LineOp{Kind: Deleted, Text: before[i-1], OldLine: i})
			i--
		}
	}

	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops
}

// New computes the diff for one file edit and tallies its stats.
func New(path, before, after string) *Diff {
	d := &Diff{Path: path, OldText: before, NewText: after, Ops: ComputeText(before, after)}
	for _, op := range d.Ops {
		switch op.Kind {
		case Added:
			d.Added++
		case Deleted:
			d.Deleted++
		}
	}
	return d
}

// Unified renders the ops in unified diff format, without hunk headers.
func Unified(d *Diff) string {
	var sb strings.Builder
	sb.WriteString("--- a/" + d.Path + "\n")
	sb.WriteString("+++ b/" + d.Path + "\n")
	for _, op := range d.Ops {
		sb.WriteString(op.Kind.Prefix())
		sb.WriteString(op.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
