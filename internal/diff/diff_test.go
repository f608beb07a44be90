package diff

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{""}, SplitLines(""))
	assert.Equal(t, []string{"a"}, SplitLines("a"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb"))
}

func TestCompute_Identity(t *testing.T) {
	lines := []string{"one", "two", "three"}
	ops := Compute(lines, lines)

	require.Len(t, ops, 3)
	for i, op := range ops {
		assert.Equal(t, Equal, op.Kind)
		assert.Equal(t, lines[i], op.Text)
		assert.Equal(t, i+1, op.OldLine)
		assert.Equal(t, i+1, op.NewLine)
	}
}

func TestCompute_PureAddition(t *testing.T) {
	ops := Compute(nil, []string{"a", "b"})

	assert.Equal(t, []LineOp{
		{Kind: Added, Text: "a", NewLine: 1},
		{Kind: Added, Text: "b", NewLine: 2},
	}, ops)
}

func TestCompute_PureDeletion(t *testing.T) {
	ops := Compute([]string{"a", "b"}, nil)

	assert.Equal(t, []LineOp{
		{Kind: Deleted, Text: "a", OldLine: 1},
		{Kind: Deleted, Text: "b", OldLine: 2},
	}, ops)
}

func TestCompute_BothEmpty(t *testing.T) {
	assert.Empty(t, Compute(nil, nil))
}

func TestCompute_SingleLineChange(t *testing.T) {
	ops := Compute([]string{"foo"}, []string{"bar"})

	assert.Equal(t, []LineOp{
		{Kind: Deleted, Text: "foo", OldLine: 1},
		{Kind: Added, Text: "bar", NewLine: 1},
	}, ops)
}

// The backtrack is deterministic: matching lines bind from the end
// (diagonal first), and dp ties resolve to Added. Swapping either rule
// yields a different, equally minimal diff, so the exact sequences are
// asserted.
func TestCompute_DeterministicBacktrack(t *testing.T) {
	ops := Compute([]string{"x"}, []string{"x", "x"})

	assert.Equal(t, []LineOp{
		{Kind: Added, Text: "x", NewLine: 1},
		{Kind: Equal, Text: "x", OldLine: 1, NewLine: 2},
	}, ops)

	ops = Compute([]string{"x", "x"}, []string{"x"})

	assert.Equal(t, []LineOp{
		{Kind: Deleted, Text: "x", OldLine: 1},
		{Kind: Equal, Text: "x", OldLine: 2, NewLine: 1},
	}, ops)
}

// When no diagonal applies and dp values tie, the horizontal move wins:
// the line is Added rather than an equal-value predecessor Deleted.
func TestCompute_TieBreakPrefersAdded(t *testing.T) {
	// At (1,1) "a" vs "b" is a dp tie (0 == 0); Added must be emitted
	// on the way out, placing Deleted first in forward order.
	ops := Compute([]string{"a"}, []string{"b"})
	assert.Equal(t, []LineOp{
		{Kind: Deleted, Text: "a", OldLine: 1},
		{Kind: Added, Text: "b", NewLine: 1},
	}, ops)

	// Disjoint two-line inputs: every cell ties, so the backtrack walks
	// all the way left (Added) before walking up (Deleted).
	ops = Compute([]string{"a", "b"}, []string{"c", "d"})
	assert.Equal(t, []LineOp{
		{Kind: Deleted, Text: "a", OldLine: 1},
		{Kind: Deleted, Text: "b", OldLine: 2},
		{Kind: Added, Text: "c", NewLine: 1},
		{Kind: Added, Text: "d", NewLine: 2},
	}, ops)
}

func TestCompute_Mixed(t *testing.T) {
	before := []string{"a", "b", "c", "d"}
	after := []string{"a", "x", "c", "d", "e"}

	ops := Compute(before, after)

	assert.Equal(t, []LineOp{
		{Kind: Equal, Text: "a", OldLine: 1, NewLine: 1},
		{Kind: Deleted, Text: "b", OldLine: 2},
		{Kind: Added, Text: "x", NewLine: 2},
		{Kind: Equal, Text: "c", OldLine: 3, NewLine: 3},
		{Kind: Equal, Text: "d", OldLine: 4, NewLine: 4},
		{Kind: Added, Text: "e", NewLine: 5},
	}, ops)
}

func TestCompute_Reconstruction(t *testing.T) {
	before := []string{"a", "b", "c", "", "d"}
	after := []string{"b", "c", "x", "", "d", "e"}

	assertReconstructs(t, before, after, Compute(before, after))
}

func TestCompute_LineNumbersMonotonic(t *testing.T) {
	before := []string{"a", "b", "c", "d", "e"}
	after := []string{"b", "z", "d", "e", "f"}

	lastOld, lastNew := 0, 0
	for _, op := range Compute(before, after) {
		if op.OldLine > 0 {
			assert.Greater(t, op.OldLine, lastOld)
			lastOld = op.OldLine
		}
		if op.NewLine > 0 {
			assert.Greater(t, op.NewLine, lastNew)
			lastNew = op.NewLine
		}
	}
}

// Differential test: op counts must match an independently computed LCS
// length, and both sides must reconstruct, for random small inputs.
func TestCompute_MinimalityRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []string{"a", "b", "c"}

	for iter := 0; iter < 500; iter++ {
		before := randomLines(rng, alphabet, rng.Intn(8))
		after := randomLines(rng, alphabet, rng.Intn(8))

		ops := Compute(before, after)
		assertReconstructs(t, before, after, ops)

		changed := 0
		for _, op := range ops {
			if op.Kind != Equal {
				changed++
			}
		}
		want := len(before) + len(after) - 2*lcsLength(before, after)
		require.Equal(t, want, changed, "before=%v after=%v ops=%v", before, after, ops)
	}
}

func TestComputeText_EmptyIsOneEmptyLine(t *testing.T) {
	ops := ComputeText("", "a")

	// "" splits to one empty line, so the diff is a replacement.
	assert.Equal(t, []LineOp{
		{Kind: Deleted, Text: "", OldLine: 1},
		{Kind: Added, Text: "a", NewLine: 1},
	}, ops)
}

func TestNew_Stats(t *testing.T) {
	d := New("main.go", "a\nb\nc", "a\nx\nc\ny")

	assert.Equal(t, "main.go", d.Path)
	assert.Equal(t, 2, d.Added)
	assert.Equal(t, 1, d.Deleted)
}

func TestUnified(t *testing.T) {
	d := New("f.txt", "a\nb", "a\nc")

	want := "--- a/f.txt\n" +
		"+++ b/f.txt\n" +
		" a\n" +
		"-b\n" +
		"+c\n"
	assert.Equal(t, want, Unified(d))
}

func TestKind_StringAndPrefix(t *testing.T) {
	assert.Equal(t, "equal", Equal.String())
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "deleted", Deleted.String())
	assert.Equal(t, " ", Equal.Prefix())
	assert.Equal(t, "+", Added.Prefix())
	assert.Equal(t, "-", Deleted.Prefix())
}

func assertReconstructs(t *testing.T, before, after []string, ops []LineOp) {
	t.Helper()

	var gotOld, gotNew []string
	for _, op := range ops {
		if op.Kind != Added {
			gotOld = append(gotOld, op.Text)
		}
		if op.Kind != Deleted {
			gotNew = append(gotNew, op.Text)
		}
	}
	require.Equal(t, before, normalize(gotOld))
	require.Equal(t, after, normalize(gotNew))
}

// normalize maps an empty slice to nil so empty inputs compare equal.
func normalize(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	return lines
}

func randomLines(rng *rand.Rand, alphabet []string, n int) []string {
	if n == 0 {
		return nil
	}
	lines := make([]string, n)
	for i := range lines {
		lines[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return lines
}

func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] > cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
