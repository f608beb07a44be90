package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ellerys/spyglass/internal/transcript"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("183")).Bold(true)
	toolStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("108"))
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	textStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	statAddStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	statDelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("174"))
)

// item is one expandable entry in the content pane: a tool invocation
// on the timeline, or a file entry on the files tab. Expanding an item
// with an edit renders its diff.
type item struct {
	id    string
	label string
	edit  *transcript.FileEdit
}

// timelineItems lists the expandable tool calls of a transcript.
func timelineItems(msgs []transcript.Message) []item {
	var items []item
	for i := range msgs {
		for _, tc := range msgs[i].ToolCalls() {
			it := item{id: "tool:" + tc.ID, label: tc.Name}
			if edit, ok := transcript.ExtractFileEdit(tc); ok {
				e := edit
				it.edit = &e
				if edit.Path != "" {
					it.label = tc.Name + " " + edit.Path
				}
			}
			items = append(items, it)
		}
	}
	return items
}

// fileItems lists the modified-files entries of a transcript.
func fileItems(msgs []transcript.Message) []item {
	var items []item
	for _, edit := range transcript.ModifiedFiles(msgs) {
		e := edit
		items = append(items, item{id: "file:" + e.Path, label: e.Path, edit: &e})
	}
	return items
}

// timelineLines renders the full transcript: message text interleaved
// with tool-call items, diffs under the expanded ones.
func (m *Model) timelineLines(width int) []string {
	var lines []string
	itemIdx := 0

	for i := range m.msgs {
		msg := &m.msgs[i]
		lines = append(lines, m.messageHeader(msg))

		for _, b := range msg.Blocks {
			switch {
			case b.Type == "text" && b.Text != "":
				lines = append(lines, renderText(b.Text, width)...)
			case b.Type == "tool_call" && b.Tool != nil:
				if itemIdx < len(m.curItems) {
					lines = append(lines, m.itemLines(m.curItems[itemIdx], itemIdx, width)...)
				}
				itemIdx++
			}
		}
		lines = append(lines, "")
	}
	return lines
}

// filesLines renders the modified-files tab.
func (m *Model) filesLines(width int) []string {
	if len(m.curItems) == 0 {
		return []string{noticeStyle.Render("  no files modified in this session")}
	}
	var lines []string
	for i, it := range m.curItems {
		lines = append(lines, m.itemLines(it, i, width)...)
	}
	return lines
}

// itemLines renders one expandable entry and, when expanded, its diff.
func (m *Model) itemLines(it item, idx int, width int) []string {
	expanded := m.expanded[it.id]

	marker := "▸"
	if expanded {
		marker = "▾"
	}
	header := marker + " " + it.label

	if expanded && it.edit != nil {
		d := m.diffs.get(*it.edit)
		if !d.Truncated {
			header += "  " + statAddStyle.Render(fmt.Sprintf("+%d", d.Added)) +
				" " + statDelStyle.Render(fmt.Sprintf("-%d", d.Deleted))
		}
	}

	if idx == m.cursor {
		header = cursorStyle.Render("› ") + toolStyle.Render(header)
	} else {
		header = "  " + toolStyle.Render(header)
	}

	lines := []string{header}
	if expanded {
		if it.edit == nil {
			lines = append(lines, noticeStyle.Render("    nothing to diff"))
		} else {
			lines = append(lines, renderDiffRows(m.diffs.get(*it.edit), m.cfg.Theme, width-2)...)
		}
	}
	return lines
}

func (m *Model) messageHeader(msg *transcript.Message) string {
	var style lipgloss.Style
	switch msg.Role {
	case "user":
		style = userStyle
	case "assistant":
		style = assistantStyle
	default:
		style = toolStyle
	}
	header := style.Render("● " + msg.Role)
	if !msg.Timestamp.IsZero() {
		header += " " + timeStyle.Render(msg.Timestamp.Format("15:04:05"))
	}
	return header
}

// renderText wraps a text block under a two-space indent.
func renderText(text string, width int) []string {
	var lines []string
	for _, raw := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		for _, seg := range wrapLine(raw, raw, width-2) {
			lines = append(lines, "  "+textStyle.Render(seg))
		}
	}
	return lines
}
