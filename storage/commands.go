package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"levyt/discogs"
	"levyt/tracing"
	"time"

	"github.com/google/uuid"
)

type InsertAction[T any] struct {
	Exec  func(ctx context.Context, data T) (int64, error)
	Close func(ctx context.Context) error
}

func InsertRelease(ctx context.Context, tx *sql.Tx, importID uuid.UUID) (*InsertAction[*discogs.Release], error) {
	ctx, span := tr.Start(ctx, "insert_release")
	defer span.End()

	statement, err := tx.PrepareContext(ctx, `
		insert into
			releases (id, title, country, data_quality, artists, genres, styles, tracks, images, import_id)
			values   (@id, @title, @country, @data_quality, @artists, @genres, @styles, @tracks, @images, @import_id)
		on conflict(id) do update set
			title        = excluded.title,
			country      = excluded.country,
			data_quality = excluded.data_quality,
			artists      = excluded.artists,
			genres       = excluded.genres,
			styles       = excluded.styles,
			tracks       = excluded.tracks,
			images       = excluded.images,
			import_id    = excluded.import_id
	`)
	if err != nil {
		return nil, tracing.Error(span, err)
	}

	return &InsertAction[*discogs.Release]{
		Exec: func(ctx context.Context, r *discogs.Release) (int64, error) {
			artists, err := jsonArray(r.Artists)
			if err != nil {
				return 0, err
			}
			genres, err := jsonArray(r.Genres)
			if err != nil {
				return 0, err
			}
			styles, err := jsonArray(r.Styles)
			if err != nil {
				return 0, err
			}
			tracks, err := jsonArray(r.Tracks)
			if err != nil {
				return 0, err
			}
			images, err := jsonArray(r.Images)
			if err != nil {
				return 0, err
			}

			result, err := statement.ExecContext(ctx,
				sql.Named("id", r.ID),
				sql.Named("title", r.Title),
				sql.Named("country", r.Country),
				sql.Named("data_quality", r.DataQuality),
				sql.Named("artists", artists),
				sql.Named("genres", genres),
				sql.Named("styles", styles),
				sql.Named("tracks", tracks),
				sql.Named("images", images),
				sql.Named("import_id", importID.String()),
			)
			if err != nil {
				return 0, err
			}

			return result.RowsAffected()
		},
		Close: func(ctx context.Context) error {
			return statement.Close()
		},
	}, nil
}

func StartImport(ctx context.Context, tx *sql.Tx, source string) (uuid.UUID, error) {
	ctx, span := tr.Start(ctx, "start_import")
	defer span.End()

	id := uuid.New()

	_, err := tx.ExecContext(ctx,
		`insert into imports (id, source, started) values (?, ?, ?)`,
		id.String(), source, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return uuid.Nil, tracing.Error(span, err)
	}

	return id, nil
}

func FinishImport(ctx context.Context, tx *sql.Tx, id uuid.UUID, releases int) error {
	ctx, span := tr.Start(ctx, "finish_import")
	defer span.End()

	_, err := tx.ExecContext(ctx,
		`update imports set finished = ?, releases = ? where id = ?`,
		time.Now().UTC().Format(time.RFC3339), releases, id.String(),
	)
	if err != nil {
		return tracing.Error(span, err)
	}

	return nil
}

func RebuildSearchIndex(ctx context.Context, tx *sql.Tx) error {
	ctx, span := tr.Start(ctx, "rebuild_search_index")
	defer span.End()

	statement := `
	delete from releases_fts;

	insert into releases_fts(release_id, title, artists)
	select r.id, r.title, (select group_concat(a.value, ' ') from json_each(r.artists) a)
	from releases r
	`
	if _, err := tx.ExecContext(ctx, statement); err != nil {
		return tracing.Error(span, err)
	}

	return nil
}

// jsonArray stores as text, sqlite treats blob arguments to json functions as jsonb.
func jsonArray[T any](values []T) (string, error) {
	if values == nil {
		values = []T{}
	}

	content, err := json.Marshal(values)
	if err != nil {
		return "", err
	}

	return string(content), nil
}
