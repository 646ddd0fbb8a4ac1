package convert

import (
	"fmt"
	"levyt/discogs"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

type releaseConverted struct {
	count int
}

type conversionFinished struct {
	summary discogs.Summary
	err     error
}

type model struct {
	input   string
	spinner spinner.Model

	converted int
	done      bool
	summary   discogs.Summary
	err       error
}

func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}

	case releaseConverted:
		m.converted = msg.count

	case conversionFinished:
		m.done = true
		m.summary = msg.summary
		m.converted = msg.summary.Releases
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) View() string {
	switch {
	case m.done && m.err != nil:
		return fmt.Sprintf("Converting %s...%s\n\nReleases: %v\n", m.input, failedStyle.Render("Failed"), m.converted)
	case m.done:
		return fmt.Sprintf("Converting %s...%s\n\nReleases: %v\n", m.input, doneStyle.Render("Done"), m.converted)
	}

	return fmt.Sprintf("%s Converting %s\n\nReleases: %v\n", m.spinner.View(), m.input, m.converted)
}
