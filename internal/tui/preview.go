package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/slackify/internal/diff"
	"github.com/gerunddev/slackify/internal/styles"
)

// PreviewTab identifies a pane of the preview pager
type PreviewTab int

const (
	TabMrkdwn PreviewTab = iota
	TabSource
	TabDiff
)

var tabTitles = []string{"mrkdwn", "source", "diff"}

func (t PreviewTab) String() string {
	if t < 0 || int(t) >= len(tabTitles) {
		return "unknown"
	}
	return tabTitles[t]
}

// PreviewData is one converted document
type PreviewData struct {
	Name   string
	Source string
	Mrkdwn string
	// Diff is a plain unified diff of Source against Mrkdwn
	Diff   string
}

type previewModel struct {
	data     PreviewData
	active   PreviewTab
	viewport viewport.Model
	ready    bool
	width    int

	// glamour output for the current width
	rendered map[PreviewTab]string
}

// InitPreviewModel creates a pager over data, opened on the mrkdwn tab
func InitPreviewModel(data PreviewData) previewModel {
	return previewModel{
		data:     data,
		rendered: map[PreviewTab]string{},
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, tabs, help and pane border
		height := msg.Height - 7
		if height < 1 {
			height = 1
		}
		width := msg.Width - 2
		if width < 20 {
			width = 20
		}
		if !m.ready {
			m.viewport = viewport.New(width, height)
			m.ready = true
		} else {
			m.viewport.Width = width
			m.viewport.Height = height
		}
		if width != m.width {
			m.width = width
			m.rendered = map[PreviewTab]string{}
		}
		m.viewport.SetContent(m.content())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			return m.switchTab((m.active + 1) % PreviewTab(len(tabTitles))), nil
		case "shift+tab", "left", "h":
			return m.switchTab((m.active + PreviewTab(len(tabTitles)) - 1) % PreviewTab(len(tabTitles))), nil
		case "1", "2", "3":
			return m.switchTab(PreviewTab(msg.String()[0] - '1')), nil
		}
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m previewModel) switchTab(tab PreviewTab) previewModel {
	m.active = tab
	if m.ready {
		m.viewport.SetContent(m.content())
		m.viewport.GotoTop()
	}
	return m
}

// content returns the body of the active tab, rendering through glamour at most once per width
func (m previewModel) content() string {
	switch m.active {
	case TabSource:
		if out, ok := m.rendered[TabSource]; ok {
			return out
		}
		out := renderMarkdown(m.data.Source, m.width)
		m.rendered[TabSource] = out
		return out
	case TabDiff:
		if m.data.Diff == "" {
			return styles.DimStyle.Render("No differences")
		}
		if out, ok := m.rendered[TabDiff]; ok {
			return out
		}
		out := diff.Render(m.data.Diff, m.width)
		m.rendered[TabDiff] = out
		return out
	default:
		return m.data.Mrkdwn
	}
}

func (m previewModel) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.data.Name))
	b.WriteString("\n")

	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		label := fmt.Sprintf("%d %s", i+1, title)
		if PreviewTab(i) == m.active {
			tabs[i] = styles.ActiveTabStyle.Render(label)
		} else {
			tabs[i] = styles.TabStyle.Render(label)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	b.WriteString(styles.PaneStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	b.WriteString(styles.HelpStyle.Render(fmt.Sprintf(
		"tab/←/→ switch • ↑/↓ scroll • %3.f%% • q quit", m.viewport.ScrollPercent()*100)))
	return b.String()
}

func renderMarkdown(source string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return source
	}

	out, err := r.Render(source)
	if err != nil {
		return source
	}
	return out
}
