package ui

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ellerys/spyglass/internal/diff"
	"github.com/ellerys/spyglass/internal/highlight"
	"github.com/ellerys/spyglass/internal/transcript"
)

var (
	gutterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	addGutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	delGutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("174"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("179")).Italic(true)
)

// Background codes survive highlighted content via injectBackground.
const (
	addedBG   = "\033[48;5;22m" // dark green
	deletedBG = "\033[48;5;52m" // dark red
)

// gutterCol is the width of the "%4d %4d" line-number gutter.
const gutterCol = 9

// diffCache memoizes computed diffs for the loaded session, keyed by
// content hash, so repeated expand/collapse toggles don't recompute the
// dp table.
type diffCache struct {
	maxLines int
	entries  map[[sha256.Size]byte]*diff.Diff
}

func newDiffCache(maxLines int) *diffCache {
	return &diffCache{
		maxLines: maxLines,
		entries:  make(map[[sha256.Size]byte]*diff.Diff),
	}
}

func (c *diffCache) get(edit transcript.FileEdit) *diff.Diff {
	h := sha256.New()
	h.Write([]byte(edit.Path))
	h.Write([]byte{0})
	h.Write([]byte(edit.OldText))
	h.Write([]byte{0})
	h.Write([]byte(edit.NewText))
	var key [sha256.Size]byte
	copy(key[:], h.Sum(nil))

	if d, ok := c.entries[key]; ok {
		return d
	}

	var d *diff.Diff
	if len(diff.SplitLines(edit.OldText)) > c.maxLines || len(diff.SplitLines(edit.NewText)) > c.maxLines {
		d = &diff.Diff{Path: edit.Path, Truncated: true}
	} else {
		d = diff.New(edit.Path, edit.OldText, edit.NewText)
	}
	c.entries[key] = d
	return d
}

// renderDiffRows turns a diff into display rows: line-number gutters,
// +/- markers, highlighted content with added/deleted backgrounds, and
// ANSI-aware wrapping.
func renderDiffRows(d *diff.Diff, styleName string, width int) []string {
	if d.Truncated {
		return []string{noticeStyle.Render("  diff too large to display")}
	}
	if len(d.Ops) == 0 {
		return []string{noticeStyle.Render("  no changes")}
	}

	oldHL := highlight.Lines(d.Path, d.OldText, styleName)
	newHL := highlight.Lines(d.Path, d.NewText, styleName)
	oldRaw := diff.SplitLines(d.OldText)
	newRaw := diff.SplitLines(d.NewText)

	contentWidth := width - gutterCol - 3
	if contentWidth < 10 {
		contentWidth = 10
	}
	contGutter := strings.Repeat(" ", gutterCol+2)

	var rows []string
	for _, op := range d.Ops {
		var nums, text, raw, bg string
		var numStyle lipgloss.Style

		switch op.Kind {
		case diff.Added:
			nums = fmt.Sprintf("     %4d", op.NewLine)
			text = lineAt(newHL, op.NewLine)
			raw = lineAt(newRaw, op.NewLine)
			bg = addedBG
			numStyle = addGutterStyle
		case diff.Deleted:
			nums = fmt.Sprintf("%4d     ", op.OldLine)
			text = lineAt(oldHL, op.OldLine)
			raw = lineAt(oldRaw, op.OldLine)
			bg = deletedBG
			numStyle = delGutterStyle
		default:
			nums = fmt.Sprintf("%4d %4d", op.OldLine, op.NewLine)
			text = lineAt(oldHL, op.OldLine)
			raw = lineAt(oldRaw, op.OldLine)
			numStyle = gutterStyle
		}

		gutter := numStyle.Render(nums) + " " + numStyle.Render(op.Kind.Prefix()) + " "
		for i, seg := range wrapLine(text, raw, contentWidth) {
			if bg != "" {
				seg = injectBackground(seg, bg) + ansiReset
			}
			if i == 0 {
				rows = append(rows, gutter+seg)
			} else {
				rows = append(rows, contGutter+" "+seg)
			}
		}
	}
	return rows
}

// lineAt indexes 1-based line numbers defensively.
func lineAt(lines []string, n int) string {
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}
