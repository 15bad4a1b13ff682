package browse

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hugo-lorenzo-mato/faultline/internal/clip"
	"github.com/hugo-lorenzo-mato/faultline/internal/fsutil"
	"github.com/hugo-lorenzo-mato/faultline/internal/store"
)

// reportsLoadedMsg carries the result of an index listing.
type reportsLoadedMsg struct {
	reports []store.Report
	err     error
}

// reportContentMsg carries one report's text.
type reportContentMsg struct {
	id      string
	content string
	err     error
}

// copiedMsg carries the outcome of a clipboard copy.
type copiedMsg struct {
	result clip.Result
	err    error
}

// loadReportsCmd lists the index.
func loadReportsCmd(st *store.Store) tea.Cmd {
	return func() tea.Msg {
		reports, err := st.List(context.Background())
		return reportsLoadedMsg{reports: reports, err: err}
	}
}

// loadContentCmd reads one report file, scoped to the reports directory.
func loadContentCmd(reportsDir string, rep store.Report) tea.Cmd {
	return func() tea.Msg {
		data, err := fsutil.ReadDirFile(reportsDir, rep.FileName)
		if err != nil {
			return reportContentMsg{id: rep.ID, err: err}
		}
		return reportContentMsg{id: rep.ID, content: string(data)}
	}
}

// copyCmd copies one report's text to the clipboard.
func copyCmd(reportsDir string, rep store.Report) tea.Cmd {
	return func() tea.Msg {
		data, err := fsutil.ReadDirFile(reportsDir, rep.FileName)
		if err != nil {
			return copiedMsg{err: err}
		}
		result, err := clip.WriteAll(string(data))
		return copiedMsg{result: result, err: err}
	}
}

// copyStatus renders a copy outcome as a one-line status.
func copyStatus(msg copiedMsg) string {
	if msg.err != nil {
		return errorStyle.Render("copy failed: " + msg.err.Error())
	}
	switch msg.result.Method {
	case clip.MethodNative:
		return statusStyle.Render("copied to clipboard")
	case clip.MethodOSC52:
		return statusStyle.Render("copied via terminal (OSC52)")
	case clip.MethodFile:
		return statusStyle.Render(fmt.Sprintf("clipboard unavailable, saved to %s", msg.result.FilePath))
	default:
		return ""
	}
}
