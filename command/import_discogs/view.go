package import_discogs

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

type releaseImported struct {
	count     int
	bytesRead int64
	err       error
}

type ftsStarted struct {
}

type fileImported struct {
	count int
}

type model struct {
	source string
	size   int64

	progress progress.Model
	fts      spinner.Model

	err      error
	imported int
	read     int64
	indexing bool
	done     bool
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}

	case releaseImported:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.imported = msg.count
		m.read = msg.bytesRead

	case ftsStarted:
		m.indexing = true
		m.read = m.size
		return m, m.fts.Tick

	case fileImported:
		m.imported = msg.count
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.fts, cmd = m.fts.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) percent() float64 {
	if m.size <= 0 {
		return 0
	}

	return min(1, float64(m.read)/float64(m.size))
}

func (m *model) View() string {
	view := fmt.Sprintf("%s\n\n%s\nReleases: %v\n", titleStyle.Render("Importing "+m.source), m.progress.ViewAs(m.percent()), m.imported)

	switch {
	case m.err != nil:
		view += "\n" + failedStyle.Render("Failed: "+m.err.Error()) + "\n"
	case m.done:
		view += "\nBuilding search index...Done\n"
	case m.indexing:
		view += fmt.Sprintf("\n%s Building search index\n", m.fts.View())
	}

	return view
}
