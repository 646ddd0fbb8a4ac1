package catalogue

import (
	"bytes"
	"levyt/discogs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var releases = []*discogs.Release{
	{ID: "1", Title: "Stockholm", Country: "Sweden", Artists: []string{"The Persuader"}, Tracks: make([]discogs.Track, 3)},
	{ID: "2", Title: "Knockin' Boots", Country: "US", Artists: []string{"Mr. James Barth & A.D.", "Josh Wink"}},
}

func TestPrintReleases(t *testing.T) {
	out := &bytes.Buffer{}
	printReleases(out, releases)

	table := out.String()
	assert.Contains(t, table, "Stockholm")
	assert.Contains(t, table, "The Persuader")
	assert.Contains(t, table, "Mr. James Barth & A.D., Josh Wink")
	assert.Contains(t, table, "TOTAL")
}

func TestWriteReleases(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, writeReleases(out, releases))

	expected := "Id,Title,Artists,Country,Tracks\n" +
		"1,Stockholm,The Persuader,Sweden,3\n" +
		"2,Knockin' Boots,\"Mr. James Barth & A.D., Josh Wink\",US,0\n"

	assert.Equal(t, expected, out.String())
}
