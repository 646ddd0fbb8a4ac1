package storage

import (
	"context"
	"database/sql"
	"levyt/discogs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stockholm = &discogs.Release{
	ID:          "1",
	Title:       "Stockholm",
	Country:     "Sweden",
	DataQuality: "Needs Vote",
	Artists:     []string{"The Persuader"},
	Genres:      []string{"Electronic"},
	Styles:      []string{"Deep House"},
	Tracks: []discogs.Track{
		{Position: "A", Title: "Östermalm", HasPosition: true, HasTitle: true},
		{Title: "Vasastaden", HasTitle: true},
	},
	Images: []string{"https://img.discogs.com/1-a.jpg"},
}

var knockin = &discogs.Release{
	ID:      "2",
	Title:   "Knockin' Boots Vol 2 Of 2",
	Country: "US",
	Artists: []string{"Mr. James Barth & A.D.", "Josh Wink"},
	Genres:  []string{"Electronic", "Pop"},
	Styles:  []string{},
	Tracks:  []discogs.Track{},
	Images:  []string{},
}

func TestCatalogue(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "catalogue", "test.sqlite")

	writer, err := Writer(ctx, dbPath)
	require.NoError(t, err)
	defer writer.Close()

	require.NoError(t, CreateTables(ctx, writer))

	tx, err := writer.BeginTx(ctx, &sql.TxOptions{})
	require.NoError(t, err)
	defer tx.Rollback()

	importID, err := StartImport(ctx, tx, "discogs_20250101_releases.xml")
	require.NoError(t, err)

	insert, err := InsertRelease(ctx, tx, importID)
	require.NoError(t, err)

	for _, release := range []*discogs.Release{stockholm, knockin, stockholm} {
		affected, err := insert.Exec(ctx, release)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	}
	require.NoError(t, insert.Close(ctx))

	require.NoError(t, RebuildSearchIndex(ctx, tx))
	require.NoError(t, FinishImport(ctx, tx, importID, 3))
	require.NoError(t, tx.Commit())

	reader, err := Reader(ctx, dbPath)
	require.NoError(t, err)
	defer reader.Close()

	t.Run("search by title", func(t *testing.T) {
		releases, err := FindReleases(ctx, reader, "stockholm", 10)
		require.NoError(t, err)
		require.Len(t, releases, 1)
		assert.Equal(t, stockholm, releases[0])
	})

	t.Run("search by artist", func(t *testing.T) {
		releases, err := FindReleases(ctx, reader, "wink", 10)
		require.NoError(t, err)
		require.Len(t, releases, 1)
		assert.Equal(t, "2", releases[0].ID)
	})

	t.Run("search limit", func(t *testing.T) {
		releases, err := FindReleases(ctx, reader, "stockholm OR wink", 1)
		require.NoError(t, err)
		require.Len(t, releases, 1)
		assert.Equal(t, "1", releases[0].ID)
	})

	t.Run("get by id", func(t *testing.T) {
		release, err := GetRelease(ctx, reader, "2")
		require.NoError(t, err)
		assert.Equal(t, knockin, release)
	})

	t.Run("unknown id", func(t *testing.T) {
		release, err := GetRelease(ctx, reader, "404")
		require.NoError(t, err)
		assert.Nil(t, release)
	})

	t.Run("import is recorded", func(t *testing.T) {
		var releases int
		var finished sql.NullString
		err := reader.QueryRowContext(ctx, `select releases, finished from imports where id = ?`, importID.String()).Scan(&releases, &finished)
		require.NoError(t, err)

		assert.Equal(t, 3, releases)
		assert.True(t, finished.Valid)
	})
}
