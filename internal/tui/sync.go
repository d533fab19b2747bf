package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/slackify/internal/styles"
	"github.com/gerunddev/slackify/internal/sync"
)

// syncModel is the Bubble Tea model for the sync progress display
type syncModel struct {
	spinner  spinner.Model
	status   string
	complete bool
	result   *sync.SyncResult
	err      error
}

// SyncMsg is sent when sync completes
type SyncMsg struct {
	Result *sync.SyncResult
	Err    error
}

// UpdateStatusMsg replaces the line shown next to the spinner
type UpdateStatusMsg string

// InitSyncModel creates a new sync progress model
func InitSyncModel(status string) syncModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	if status == "" {
		status = "Converting notes..."
	}

	return syncModel{
		spinner: s,
		status:  status,
	}
}

func (m syncModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m syncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case UpdateStatusMsg:
		m.status = string(msg)
		return m, nil

	case SyncMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m syncModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Sync failed: "+m.err.Error()) + "\n"
	}
	if m.result == nil {
		return ""
	}

	return SummarizeSync(m.result)
}

// SummarizeSync renders a finished sync result the way the sync command prints it
func SummarizeSync(r *sync.SyncResult) string {
	elapsed := styles.DimStyle.Render(fmt.Sprintf("Completed in %v", r.EndTime.Sub(r.StartTime).Round(time.Millisecond)))

	if r.FilesConverted == 0 && len(r.Removed) == 0 && len(r.Errors) == 0 {
		return styles.SuccessStyle.Render("✓ Nothing to convert") + "\n" + elapsed + "\n"
	}

	verb := "Converted"
	if r.DryRun {
		verb = "Would convert"
	}

	msg := styles.SuccessStyle.Render(fmt.Sprintf("✓ %s %d file(s)", verb, r.FilesConverted))
	if r.Skipped > 0 {
		msg += ", " + styles.DimStyle.Render(fmt.Sprintf("%d unchanged", r.Skipped))
	}
	if len(r.Removed) > 0 {
		msg += ", " + styles.WarningStyle.Render(fmt.Sprintf("%d removed", len(r.Removed)))
	}
	if len(r.Errors) > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(r.Errors)))
	}
	msg += "\n"

	if r.DryRun {
		for _, rel := range r.Converted {
			msg += "  " + styles.HighlightStyle.Render("→") + " " + rel + "\n"
		}
		for _, rel := range r.Removed {
			msg += "  " + styles.WarningStyle.Render("✗") + " " + rel + "\n"
		}
	}
	for _, err := range r.Errors {
		msg += "  " + styles.ErrorStyle.Render(err.Error()) + "\n"
	}

	return msg + elapsed + "\n"
}

// SyncFailed reports whether a finished sync model ended in an error or per-file failures
func SyncFailed(m tea.Model) bool {
	sm, ok := m.(syncModel)
	if !ok || !sm.complete {
		return false
	}
	return sm.err != nil || (sm.result != nil && len(sm.result.Errors) > 0)
}
