package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvironment(t *testing.T) {

	t.Run("defaults", func(t *testing.T) {
		cfg, err := FromEnvironment([]string{"HOME=/root", "PATH=/bin"})
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := FromEnvironment([]string{
			"LEVYT_DATABASE_FILE=/tmp/catalogue.sqlite",
			"LEVYT_MISSING_VALUE=",
			"OTEL_EXPORTER_OTLP_ENDPOINT=localhost:4317",
		})
		require.NoError(t, err)

		assert.Equal(t, "/tmp/catalogue.sqlite", cfg.DatabaseFile)
		assert.Equal(t, "", cfg.MissingValue)
		assert.Equal(t, "localhost:4317", cfg.OtlpEndpoint)
		assert.Equal(t, "discogs_*releases.xml", cfg.InputPattern)
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		cfg, err := FromEnvironment([]string{"LEVYT_SOMETHING_ELSE=1"})
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})
}

func TestResolve(t *testing.T) {
	write := func(t *testing.T, content string) string {
		path := filepath.Join(t.TempDir(), "levyt.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("file overrides defaults", func(t *testing.T) {
		path := write(t, "database_file = \"catalogue.sqlite\"\nmissing_value = \"-\"\n")

		cfg, err := Resolve([]string{"LEVYT_CONFIG=" + path})
		require.NoError(t, err)

		assert.Equal(t, "catalogue.sqlite", cfg.DatabaseFile)
		assert.Equal(t, "-", cfg.MissingValue)
		assert.Equal(t, "discogs_*releases.xml", cfg.InputPattern)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := write(t, "missing_value = \"-\"\n")

		cfg, err := Resolve([]string{"LEVYT_CONFIG=" + path, "LEVYT_MISSING_VALUE=?"})
		require.NoError(t, err)

		assert.Equal(t, "?", cfg.MissingValue)
	})

	t.Run("named file must exist", func(t *testing.T) {
		_, err := Resolve([]string{"LEVYT_CONFIG=" + filepath.Join(t.TempDir(), "nope.toml")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid file", func(t *testing.T) {
		path := write(t, "missing_value = \n")

		_, err := Resolve([]string{"LEVYT_CONFIG=" + path})
		assert.ErrorContains(t, err, "parse config")
	})
}
