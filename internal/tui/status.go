package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/slackify/internal/styles"
	"github.com/gerunddev/slackify/internal/sync"
)

// StatusData holds all the information for the status display
type StatusData struct {
	SourceDir     string
	OutputDir     string
	Interval      time.Duration
	LastSync      time.Time
	DaemonRunning bool
	DaemonPID     int
	Files         []sync.FileStatus
}

// Pending counts files the next sync would touch
func (d *StatusData) Pending() int {
	n := 0
	for _, f := range d.Files {
		switch f.State {
		case sync.StateUpToDate, sync.StateExcluded:
		default:
			n++
		}
	}
	return n
}

// StatusMsg is sent when status data is ready
type StatusMsg struct {
	Data *StatusData
	Err  error
}

type statusModel struct {
	spinner  spinner.Model
	table    table.Model
	data     *StatusData
	err      error
	scanning bool
	selected string
}

// InitStatusModel creates a new status display model
func InitStatusModel() statusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "File", Width: 48},
			{Title: "Status", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Foreground)).
		Background(lipgloss.Color(styles.Aubergine)).
		Bold(false)
	t.SetStyles(ts)

	return statusModel{
		spinner:  s,
		table:    t,
		scanning: true,
	}
}

// SelectedFile returns the source path chosen with enter in a finished status model, if any
func SelectedFile(m tea.Model) string {
	if sm, ok := m.(statusModel); ok {
		return sm.selected
	}
	return ""
}

func (m statusModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if h := msg.Height - 14; h > 3 {
			m.table.SetHeight(h)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter":
			if m.data != nil && len(m.data.Files) > 0 {
				idx := m.table.Cursor()
				if idx >= 0 && idx < len(m.data.Files) && m.data.Files[idx].State != sync.StateRemoved {
					m.selected = m.data.Files[idx].Source
					return m, tea.Quit
				}
			}
			return m, nil
		}
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case StatusMsg:
		m.scanning = false
		m.data = msg.Data
		m.err = msg.Err

		if m.data != nil {
			rows := make([]table.Row, 0, len(m.data.Files))
			for _, f := range m.data.Files {
				rows = append(rows, table.Row{f.Source, stateIcon(f.State) + " " + string(f.State)})
			}
			m.table.SetRows(rows)
		}
		return m, nil

	case spinner.TickMsg:
		if m.scanning {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func stateIcon(s sync.FileState) string {
	switch s {
	case sync.StateUpToDate:
		return "✓"
	case sync.StateExcluded:
		return "-"
	case sync.StateRemoved:
		return "✗"
	default:
		return "→"
	}
}

func (m statusModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("slackify status"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if m.scanning || m.data == nil {
		b.WriteString(fmt.Sprintf("%s Scanning notes...\n", m.spinner.View()))
		return b.String()
	}

	b.WriteString(styles.HighlightStyle.Render("Configuration"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Source directory: %s\n", m.data.SourceDir))
	b.WriteString(fmt.Sprintf("  Output directory: %s\n", m.data.OutputDir))
	b.WriteString(fmt.Sprintf("  Sync interval:    %s\n", m.data.Interval))
	if m.data.DaemonRunning {
		b.WriteString(fmt.Sprintf("  Daemon:           %s\n", styles.SuccessStyle.Render(fmt.Sprintf("● running (PID %d)", m.data.DaemonPID))))
	} else {
		b.WriteString(fmt.Sprintf("  Daemon:           %s\n", styles.DimStyle.Render("○ not running")))
	}
	if !m.data.LastSync.IsZero() {
		b.WriteString(fmt.Sprintf("  Last sync:        %s\n", m.data.LastSync.Format(time.DateTime)))
	}
	b.WriteString("\n")

	pending := m.data.Pending()
	if pending == 0 {
		b.WriteString("  " + styles.SuccessStyle.Render("✓ All outputs up to date") + "\n\n")
	} else {
		b.WriteString("  " + styles.WarningStyle.Render(fmt.Sprintf("● %d file(s) pending", pending)) + "\n\n")
	}

	if len(m.data.Files) == 0 {
		b.WriteString(styles.DimStyle.Render("  No Markdown files found"))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("q quit"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(styles.PaneStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter preview • q quit"))
	b.WriteString("\n")

	return b.String()
}
