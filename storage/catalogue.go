package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"levyt/discogs"
	"levyt/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type Readable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const selectReleases = `
	select
		r.id,
		r.title,
		r.country,
		r.data_quality,
		r.artists,
		r.genres,
		r.styles,
		r.tracks,
		r.images
`

func FindReleases(ctx context.Context, reader Readable, term string, limit int) ([]*discogs.Release, error) {
	ctx, span := tr.Start(ctx, "find_releases")
	defer span.End()

	span.SetAttributes(
		attribute.String("term", term),
		attribute.Int("limit", limit),
	)

	query := selectReleases + `
		from releases_fts
		join releases r on r.id = releases_fts.release_id
		where releases_fts match @term
		order by cast(r.id as integer)
		limit @limit
	`

	rows, err := reader.QueryContext(ctx, query, sql.Named("term", term), sql.Named("limit", limit))
	if err != nil {
		return nil, tracing.Error(span, err)
	}

	releases, err := scanReleases(rows)
	if err != nil {
		return nil, tracing.Error(span, err)
	}

	span.SetAttributes(attribute.Int("results", len(releases)))

	return releases, nil
}

func GetRelease(ctx context.Context, reader Readable, id string) (*discogs.Release, error) {
	ctx, span := tr.Start(ctx, "get_release")
	defer span.End()

	span.SetAttributes(attribute.String("release.id", id))

	query := selectReleases + `
		from releases r
		where r.id = @id
	`

	rows, err := reader.QueryContext(ctx, query, sql.Named("id", id))
	if err != nil {
		return nil, tracing.Error(span, err)
	}

	releases, err := scanReleases(rows)
	if err != nil {
		return nil, tracing.Error(span, err)
	}

	if len(releases) == 0 {
		return nil, nil
	}

	return releases[0], nil
}

func scanReleases(rows *sql.Rows) ([]*discogs.Release, error) {
	defer rows.Close()

	releases := []*discogs.Release{}
	for rows.Next() {
		release := &discogs.Release{}
		var artists, genres, styles, tracks, images string

		if err := rows.Scan(&release.ID, &release.Title, &release.Country, &release.DataQuality, &artists, &genres, &styles, &tracks, &images); err != nil {
			return nil, err
		}

		columns := []struct {
			content string
			target  any
		}{
			{artists, &release.Artists},
			{genres, &release.Genres},
			{styles, &release.Styles},
			{tracks, &release.Tracks},
			{images, &release.Images},
		}

		for _, column := range columns {
			if err := json.Unmarshal([]byte(column.content), column.target); err != nil {
				return nil, err
			}
		}

		releases = append(releases, release)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return releases, nil
}
