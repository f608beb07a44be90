package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	tabActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true).Underline(true)
	tabIdleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	listSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	listRowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	listMetaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sepStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting spyglass..."
	}

	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n")

	if m.cfg.Layout == "vertical" {
		b.WriteString(m.listPane(m.width, m.listHeight()))
		b.WriteString("\n")
		b.WriteString(sepStyle.Render(strings.Repeat("─", max(m.width, 1))))
		b.WriteString("\n")
		b.WriteString(m.vp.View())
	} else {
		h := m.vp.Height
		list := lipgloss.NewStyle().Width(m.listWidth()).Height(h).MaxHeight(h).Render(m.listPane(m.listWidth(), h))
		sep := strings.TrimRight(strings.Repeat(sepStyle.Render("│")+"\n", h), "\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, sep, m.vp.View()))
	}

	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String()
}

func (m Model) tabBar() string {
	timeline := tabIdleStyle.Render("1:timeline")
	files := tabIdleStyle.Render("2:files")
	if m.tab == tabTimeline {
		timeline = tabActiveStyle.Render("1:timeline")
	} else {
		files = tabActiveStyle.Render("2:files")
	}
	return " " + timeline + "  " + files
}

// listPane renders the session list, newest first as served.
func (m Model) listPane(width, height int) string {
	if len(m.sessions) == 0 {
		return noticeStyle.Render(" no sessions")
	}

	// Keep the selection visible in a window of the pane height.
	start := 0
	if m.selected >= height {
		start = m.selected - height + 1
	}

	var rows []string
	for i := start; i < len(m.sessions) && len(rows) < height; i++ {
		s := m.sessions[i]
		title := s.Title
		if title == "" {
			title = s.ID
		}
		title = runewidth.Truncate(title, max(width-10, 8), "…")
		meta := listMetaStyle.Render(fmt.Sprintf(" %d", s.MessageCount))

		if i == m.selected {
			marker := "› "
			if s.ID == m.active {
				marker = "» "
			}
			rows = append(rows, listSelStyle.Render(marker+title)+meta)
		} else {
			marker := "  "
			if s.ID == m.active {
				marker = "» "
			}
			rows = append(rows, listRowStyle.Render(marker+title)+meta)
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) statusBar() string {
	left := statusStyle.Render(m.status)
	if m.loading {
		left = m.spin.View() + " " + left
	}
	if m.err != nil {
		left = errStyle.Render(m.err.Error())
	}

	help := statusStyle.Render("enter open · space expand · n/p item · j/k scroll · tab files · r refresh · v layout · q quit")
	bar := " " + left
	pad := m.width - visibleWidth(bar) - visibleWidth(help) - 1
	if pad > 0 {
		bar += strings.Repeat(" ", pad) + help
	}
	return bar
}
