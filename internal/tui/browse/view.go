package browse

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the full browser screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  initializing..."
	}
	if m.loading {
		return fmt.Sprintf("\n  %s loading reports...", m.spinner.View())
	}
	if m.err != nil {
		return "\n  " + errorStyle.Render("error: "+m.err.Error()) + "\n\n  " + hintStyle.Render("r retry · q quit")
	}

	header := m.renderHeader()
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), m.renderDetail())
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	title := logoStyle.Render("faultline") + headerStyle.Render(" · crash reports")
	count := headerStyle.Render(fmt.Sprintf("%d of %d", len(m.filtered), len(m.reports)))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(count) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + title + strings.Repeat(" ", gap) + count
}

func (m Model) renderList() string {
	width := m.listWidth()
	innerWidth := width - 4
	height := m.height - 5
	if height < 3 {
		height = 3
	}

	var rows []string
	if len(m.filtered) == 0 {
		rows = append(rows, itemMetaStyle.Render("no reports"))
	}

	// Keep the selection in view by windowing around it.
	start := 0
	if m.selected >= height {
		start = m.selected - height + 1
	}
	end := start + height
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	for i := start; i < end; i++ {
		rep := m.reports[m.filtered[i]]

		cursor := "  "
		style := itemStyle
		if i == m.selected {
			cursor = iconChevronRight + " "
			style = itemSelectedStyle
		}

		dot := lipgloss.NewStyle().Foreground(signalColor(rep.Signal)).Render(iconDot)
		age := itemMetaStyle.Render(humanizeTime(rep.CapturedAt))

		label := truncate(rep.FileName, innerWidth-lipgloss.Width(cursor)-lipgloss.Width(age)-4)
		row := cursor + dot + " " + style.Render(label) + " " + age
		rows = append(rows, row)
	}

	for len(rows) < height {
		rows = append(rows, "")
	}

	pane := listPaneStyle
	if !m.detailFocus {
		pane = listFocusedStyle
	}
	return pane.Width(width).Render(strings.Join(rows, "\n"))
}

func (m Model) renderDetail() string {
	pane := detailPaneStyle
	if m.detailFocus {
		pane = detailFocusedStyle
	}
	return pane.Render(m.viewport.View())
}

func (m Model) renderFooter() string {
	if m.filterActive {
		return " / " + m.filter.View()
	}

	var left string
	if m.status != "" {
		left = " " + m.status
	} else if sel := m.selection(); sel != nil {
		left = " " + itemMetaStyle.Render(fmt.Sprintf("%s · %s · %d frames",
			sel.Reason, formatSize(sel.SizeBytes), sel.Frames))
	}

	hints := hintStyle.Render("j/k move · enter detail · / filter · c copy · r refresh · q quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(hints) - 2
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + hints + " "
}

// humanizeTime renders a capture time as a rough age.
func humanizeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return s[:max-1] + "…"
}
