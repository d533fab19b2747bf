package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/slackify/internal/styles"
)

// RefreshInterval is how often the dashboard reloads daemon data
const RefreshInterval = 2 * time.Second

// DaemonData holds daemon status information
type DaemonData struct {
	Running        bool
	PID            int
	StartTime      time.Time
	SourceDir      string
	OutputDir      string
	LastSyncTime   time.Time
	FilesConverted int
	LogLines       []string
}

// DaemonMsg is sent when daemon data is ready
type DaemonMsg struct {
	Data *DaemonData
	Err  error
}

// TickMsg triggers a periodic refresh
type TickMsg time.Time

type daemonModel struct {
	fetch func() (*DaemonData, error)
	data  *DaemonData
	err   error
	ready bool
}

// InitDaemonModel creates a dashboard that calls fetch on start and every RefreshInterval
func InitDaemonModel(fetch func() (*DaemonData, error)) daemonModel {
	return daemonModel{fetch: fetch}
}

func (m daemonModel) Init() tea.Cmd {
	return tea.Batch(m.load(), tick())
}

func (m daemonModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case TickMsg:
		return m, tea.Batch(m.load(), tick())

	case DaemonMsg:
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m daemonModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("slackify daemon"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready || m.data == nil {
		return b.String()
	}

	b.WriteString(styles.HighlightStyle.Render("Daemon Status"))
	b.WriteString("\n")
	if m.data.Running {
		uptime := time.Since(m.data.StartTime).Round(time.Second)
		b.WriteString(fmt.Sprintf("  Status: %s\n", styles.SuccessStyle.Render("● Running")))
		b.WriteString(fmt.Sprintf("  PID:    %d\n", m.data.PID))
		b.WriteString(fmt.Sprintf("  Uptime: %s\n", uptime))
	} else {
		b.WriteString(fmt.Sprintf("  Status: %s\n", styles.DimStyle.Render("○ Not running")))
	}
	if m.data.SourceDir != "" {
		b.WriteString(fmt.Sprintf("  Source: %s\n", m.data.SourceDir))
		b.WriteString(fmt.Sprintf("  Output: %s\n", m.data.OutputDir))
	}
	b.WriteString("\n")

	b.WriteString(styles.HighlightStyle.Render("Conversions"))
	b.WriteString("\n")
	if !m.data.LastSyncTime.IsZero() {
		since := time.Since(m.data.LastSyncTime).Round(time.Second)
		b.WriteString(fmt.Sprintf("  Last sync:       %s ago\n", since))
		b.WriteString(fmt.Sprintf("  Files converted: %d\n", m.data.FilesConverted))
	} else {
		b.WriteString("  " + styles.DimStyle.Render("No sync completed yet") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.HighlightStyle.Render("Recent Logs"))
	b.WriteString("\n")
	if len(m.data.LogLines) > 0 {
		for _, line := range m.data.LogLines {
			if line == "" {
				continue
			}
			b.WriteString("  " + line + "\n")
		}
	} else {
		b.WriteString(styles.DimStyle.Render("  No logs available"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("q quit • auto-refresh: %s", RefreshInterval)))
	b.WriteString("\n")

	return b.String()
}

func (m daemonModel) load() tea.Cmd {
	if m.fetch == nil {
		return nil
	}
	fetch := m.fetch
	return func() tea.Msg {
		data, err := fetch()
		return DaemonMsg{Data: data, Err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
