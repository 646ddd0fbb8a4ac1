package discogs

import (
	"context"
	"errors"
	"levyt/tracing"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tr = otel.Tracer("discogs")

const DefaultPattern = "discogs_*releases.xml"

var (
	ErrInputNotFound  = errors.New("no discogs releases xml file found")
	ErrAmbiguousInput = errors.New("more than one discogs releases xml file found")
)

// FindReleasesFile returns the single file in dir matching pattern. An empty
// dir means the working directory, and an empty pattern the default one.
func FindReleasesFile(ctx context.Context, dir string, pattern string) (string, error) {
	ctx, span := tr.Start(ctx, "find_releases_file")
	defer span.End()

	if pattern == "" {
		pattern = DefaultPattern
	}

	span.SetAttributes(
		attribute.String("locator.dir", dir),
		attribute.String("locator.pattern", pattern),
	)

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", tracing.Error(span, err)
	}

	span.SetAttributes(attribute.Int("locator.matches", len(matches)))

	switch len(matches) {
	case 0:
		return "", tracing.Errorf(span, "%w: nothing matches %s", ErrInputNotFound, pattern)
	case 1:
		return matches[0], nil
	default:
		return "", tracing.Errorf(span, "%w: %s", ErrAmbiguousInput, strings.Join(matches, ", "))
	}
}

// OutputPath swaps the .xml suffix of input for .csv.
func OutputPath(input string) string {
	return strings.TrimSuffix(input, ".xml") + ".csv"
}
