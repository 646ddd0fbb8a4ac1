package discogs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindReleasesFile(t *testing.T) {
	ctx := context.Background()

	touch := func(t *testing.T, dir, name string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("<releases/>"), 0o644))
		return path
	}

	t.Run("no matching file", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "discogs_20250101_masters.xml")

		_, err := FindReleasesFile(ctx, dir, "")
		assert.ErrorIs(t, err, ErrInputNotFound)
	})

	t.Run("single match", func(t *testing.T) {
		dir := t.TempDir()
		expected := touch(t, dir, "discogs_20250101_releases.xml")
		touch(t, dir, "discogs_20250101_artists.xml")

		path, err := FindReleasesFile(ctx, dir, "")
		require.NoError(t, err)
		assert.Equal(t, expected, path)
	})

	t.Run("several matches", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "discogs_20250101_releases.xml")
		touch(t, dir, "discogs_20250201_releases.xml")

		_, err := FindReleasesFile(ctx, dir, "")
		assert.ErrorIs(t, err, ErrAmbiguousInput)
		assert.ErrorContains(t, err, "discogs_20250201_releases.xml")
	})

	t.Run("custom pattern", func(t *testing.T) {
		dir := t.TempDir()
		expected := touch(t, dir, "sample.xml")

		path, err := FindReleasesFile(ctx, dir, "*.xml")
		require.NoError(t, err)
		assert.Equal(t, expected, path)
	})
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "discogs_20250101_releases.csv", OutputPath("discogs_20250101_releases.xml"))
	assert.Equal(t, "/data/xml/discogs_releases.csv", OutputPath("/data/xml/discogs_releases.xml"))
}
