package storage

import (
	"context"
	"database/sql"
	"levyt/tracing"
	"net/url"
	"os"
	"path"
	"runtime"

	"github.com/XSAM/otelsql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	_ "github.com/mattn/go-sqlite3"
)

var tr = otel.Tracer("storage")

func Writer(ctx context.Context, dbPath string) (*sql.DB, error) {
	ctx, span := tr.Start(ctx, "open_writer")
	defer span.End()

	dir := path.Dir(dbPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, tracing.Error(span, err)
	}

	db, err := open(dbPath)
	if err != nil {
		return nil, tracing.Error(span, err)
	}
	db.SetMaxOpenConns(1)

	if err := withPragmas(ctx, db); err != nil {
		return nil, tracing.Error(span, err)
	}

	return db, nil
}

func Reader(ctx context.Context, dbPath string) (*sql.DB, error) {
	ctx, span := tr.Start(ctx, "open_reader")
	defer span.End()

	db, err := open(dbPath)
	if err != nil {
		return nil, tracing.Error(span, err)
	}
	db.SetMaxOpenConns(max(4, runtime.NumCPU()))

	if err := withPragmas(ctx, db); err != nil {
		return nil, tracing.Error(span, err)
	}

	return db, nil
}

func open(dbPath string) (*sql.DB, error) {
	return otelsql.Open("sqlite3", connectionString(dbPath),
		otelsql.WithAttributes(attribute.String("db.system", "sqlite")),
	)
}

func CreateTables(ctx context.Context, db *sql.DB) error {
	ctx, span := tr.Start(ctx, "create_tables")
	defer span.End()

	statements := []string{
		`create table if not exists imports (
			id text not null primary key,
			source text not null,
			started text not null,
			finished text,
			releases int
		) STRICT`,
		`create table if not exists releases (
			id text not null primary key,
			title text,
			country text,
			data_quality text,
			artists text,
			genres text,
			styles text,
			tracks text,
			images text,
			import_id text,
			foreign key(import_id) references imports(id)
		)`,
		`create virtual table if not exists releases_fts using fts4 (
			release_id,
			title,
			artists
		)`,
	}

	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return tracing.Error(span, err)
		}
	}

	return nil
}

func connectionString(filepath string) string {

	conn := url.Values{}
	conn.Add("_txlock", "immediate")
	conn.Add("_journal_mode", "WAL")
	conn.Add("_busy_timeout", "5000")
	conn.Add("_synchronous", "NORMAL")
	conn.Add("_cache_size", "1000000000")
	conn.Add("_foreign_keys", "true")

	return "file:" + filepath + "?" + conn.Encode()
}

func withPragmas(ctx context.Context, db *sql.DB) error {

	if _, err := db.ExecContext(ctx, `PRAGMA temp_store = memory`); err != nil {
		return err
	}

	return nil
}
