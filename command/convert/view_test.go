package convert

import (
	"errors"
	"levyt/discogs"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestProgressModel(t *testing.T) {

	t.Run("counts releases", func(t *testing.T) {
		m := &model{input: "discogs_releases.xml", spinner: spinner.New()}

		_, cmd := m.Update(releaseConverted{count: 2000})
		assert.Nil(t, cmd)
		assert.Equal(t, 2000, m.converted)
		assert.Contains(t, m.View(), "Releases: 2000")
		assert.False(t, m.done)
	})

	t.Run("finishes with the summary", func(t *testing.T) {
		m := &model{input: "discogs_releases.xml", spinner: spinner.New()}
		failure := errors.New("broken")

		_, cmd := m.Update(conversionFinished{
			summary: discogs.Summary{Releases: 12},
			err:     failure,
		})

		assert.NotNil(t, cmd)
		assert.True(t, m.done)
		assert.Equal(t, 12, m.converted)
		assert.Equal(t, failure, m.err)
		assert.Contains(t, m.View(), "Failed")
	})

	t.Run("finishes successfully", func(t *testing.T) {
		m := &model{input: "discogs_releases.xml", spinner: spinner.New()}

		m.Update(conversionFinished{summary: discogs.Summary{Releases: 3}})

		assert.True(t, m.done)
		assert.NoError(t, m.err)
		assert.Contains(t, m.View(), "Done")
		assert.Contains(t, m.View(), "Releases: 3")
	})

	t.Run("ctrl+c quits without finishing", func(t *testing.T) {
		m := &model{spinner: spinner.New()}

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		assert.NotNil(t, cmd)
		assert.False(t, m.done)
	})
}
