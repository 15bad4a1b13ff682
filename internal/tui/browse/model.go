// Package browse is the interactive report browser: a report list with
// fuzzy filtering on the left, the report text on the right, and
// copy-to-clipboard on demand.
package browse

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/hugo-lorenzo-mato/faultline/internal/store"
)

// Color palette - modern dark theme
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#06B6D4") // Cyan
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	textColor      = lipgloss.Color("#F9FAFB") // White
	dimColor       = lipgloss.Color("#9CA3AF") // Light gray
	borderColor    = lipgloss.Color("#374151") // Border
)

const (
	iconDot          = "●"
	iconChevronRight = "›"
)

// Styles for the browser UI
var (
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	listPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	listFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1)

	detailPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	detailFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(textColor)

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(textColor).
				Bold(true)

	itemMetaStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)
)

// signalColor picks the badge color for a signal number.
func signalColor(signal int) lipgloss.Color {
	switch signal {
	case 11: // SIGSEGV
		return errorColor
	case 6: // SIGABRT
		return warningColor
	case 8: // SIGFPE
		return secondaryColor
	case 7, 10: // SIGBUS (linux, darwin)
		return primaryColor
	case 4: // SIGILL
		return dimColor
	default:
		return mutedColor
	}
}

// Model is the Bubble Tea model for the report browser.
type Model struct {
	// UI components
	viewport viewport.Model
	filter   textinput.Model
	spinner  spinner.Model

	// Data
	store      *store.Store
	reportsDir string
	reports    []store.Report
	filtered   []int // indices into reports, in display order
	selected   int   // index into filtered
	content    map[string]string

	// Display state
	width, height int
	ready         bool
	loading       bool
	filterActive  bool
	detailFocus   bool
	quitting      bool
	status        string
	err           error
}

// NewModel creates a new browser model over the index and reports directory.
func NewModel(st *store.Store, reportsDir string) Model {
	ti := textinput.New()
	ti.Placeholder = "filter reports..."
	ti.CharLimit = 128
	ti.Width = 32

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		viewport:   viewport.New(0, 0),
		filter:     ti,
		spinner:    sp,
		store:      st,
		reportsDir: reportsDir,
		content:    make(map[string]string),
		loading:    true,
	}
}

// Init starts the spinner and the initial report load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadReportsCmd(m.store))
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case reportsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.reports = msg.reports
		m.applyFilter()
		return m, m.loadSelected()

	case reportContentMsg:
		if msg.err != nil {
			m.content[msg.id] = errorStyle.Render("failed to read report: " + msg.err.Error())
		} else {
			m.content[msg.id] = msg.content
		}
		if sel := m.selection(); sel != nil && sel.ID == msg.id {
			m.viewport.SetContent(m.content[msg.id])
			m.viewport.GotoTop()
		}
		return m, nil

	case copiedMsg:
		m.status = copyStatus(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes a key press to filter input or list navigation.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	if m.filterActive {
		switch msg.String() {
		case "esc":
			m.filterActive = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.applyFilter()
			return m, m.loadSelected()
		case "enter":
			m.filterActive = false
			m.filter.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, tea.Batch(cmd, m.loadSelected())
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.detailFocus {
			break
		}
		return m.moveSelection(-1)

	case "down", "j":
		if m.detailFocus {
			break
		}
		return m.moveSelection(1)

	case "enter", "tab":
		m.detailFocus = !m.detailFocus
		return m, nil

	case "esc":
		if m.detailFocus {
			m.detailFocus = false
			return m, nil
		}
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
			return m, m.loadSelected()
		}
		return m, nil

	case "/":
		m.filterActive = true
		m.detailFocus = false
		m.filter.Focus()
		return m, textinput.Blink

	case "c":
		if sel := m.selection(); sel != nil {
			return m, copyCmd(m.reportsDir, *sel)
		}
		return m, nil

	case "r":
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, loadReportsCmd(m.store))
	}

	if m.detailFocus {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// moveSelection shifts the list cursor and loads the newly selected report.
func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	if len(m.filtered) == 0 {
		return m, nil
	}
	next := m.selected + delta
	if next < 0 {
		next = 0
	}
	if next > len(m.filtered)-1 {
		next = len(m.filtered) - 1
	}
	if next == m.selected {
		return m, nil
	}
	m.selected = next
	return m, m.loadSelected()
}

// applyFilter recomputes the visible report set from the filter query.
func (m *Model) applyFilter() {
	query := m.filter.Value()
	if query == "" {
		m.filtered = make([]int, len(m.reports))
		for i := range m.reports {
			m.filtered[i] = i
		}
	} else {
		targets := make([]string, len(m.reports))
		for i, r := range m.reports {
			targets[i] = r.FileName + " " + r.Reason
		}
		matches := fuzzy.Find(query, targets)
		m.filtered = make([]int, len(matches))
		for i, match := range matches {
			m.filtered[i] = match.Index
		}
	}

	if m.selected > len(m.filtered)-1 {
		m.selected = len(m.filtered) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// selection returns the currently selected report, or nil.
func (m Model) selection() *store.Report {
	if len(m.filtered) == 0 || m.selected >= len(m.filtered) {
		return nil
	}
	return &m.reports[m.filtered[m.selected]]
}

// loadSelected returns a command that loads the selected report's text if
// it is not cached yet, and points the viewport at it.
func (m *Model) loadSelected() tea.Cmd {
	sel := m.selection()
	if sel == nil {
		m.viewport.SetContent("")
		return nil
	}
	if text, ok := m.content[sel.ID]; ok {
		m.viewport.SetContent(text)
		m.viewport.GotoTop()
		return nil
	}
	m.viewport.SetContent(hintStyle.Render("loading..."))
	return loadContentCmd(m.reportsDir, *sel)
}

// layout recomputes pane dimensions from the window size.
func (m *Model) layout() {
	listWidth := m.listWidth()
	detailWidth := m.width - listWidth - 6
	if detailWidth < 20 {
		detailWidth = 20
	}
	contentHeight := m.height - 5
	if contentHeight < 3 {
		contentHeight = 3
	}
	m.viewport.Width = detailWidth
	m.viewport.Height = contentHeight
}

func (m Model) listWidth() int {
	w := 46
	if m.width > 0 && w > m.width/2 {
		w = m.width / 2
	}
	return w
}
