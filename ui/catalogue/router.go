package catalogue

import (
	"context"
	"levyt/config"
	"levyt/routing"
	"levyt/storage"
	"levyt/template"
	"levyt/tracing"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tr = otel.Tracer("ui.catalogue")

const pageSize = 50

func RegisterHandlers(ctx context.Context, config *config.Config, mux *http.ServeMux, engine *template.TemplateEngine) error {
	ctx, span := tr.Start(ctx, "register_handlers")
	defer span.End()

	if err := ensureCatalogue(ctx, config.DatabaseFile); err != nil {
		return tracing.Error(span, err)
	}

	reader, err := storage.Reader(ctx, config.DatabaseFile)
	if err != nil {
		return tracing.Error(span, err)
	}

	go func() {
		<-ctx.Done()
		reader.Close()
	}()

	mux.HandleFunc("GET /{$}", routing.RouteHandler(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := tr.Start(r.Context(), "get_search")
		defer span.End()

		form, err := routing.Form(r)
		if err != nil {
			return tracing.Error(span, err)
		}

		query := strings.TrimSpace(form["query"])
		span.SetAttributes(attribute.String("query", query))

		dto := map[string]any{
			"Query":   query,
			"Results": []any{},
		}

		if query != "" {
			releases, err := storage.FindReleases(ctx, reader, query, pageSize)
			if err != nil {
				return tracing.Error(span, err)
			}
			dto["Results"] = releases
		}

		w.Header().Set("Content-Type", "text/html")
		return engine.Render(ctx, "catalogue/search.html", dto, w)
	}))

	mux.HandleFunc("GET /releases/{id}", routing.RouteHandler(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := tr.Start(r.Context(), "get_release")
		defer span.End()

		id := r.PathValue("id")
		span.SetAttributes(attribute.String("release.id", id))

		release, err := storage.GetRelease(ctx, reader, id)
		if err != nil {
			return tracing.Error(span, err)
		}

		if release == nil {
			http.NotFound(w, r)
			return nil
		}

		dto := map[string]any{
			"Query":   "",
			"Release": release,
		}

		w.Header().Set("Content-Type", "text/html")
		return engine.Render(ctx, "catalogue/release.html", dto, w)
	}))

	return nil
}

// ensureCatalogue creates an empty catalogue so searches work before the
// first import.
func ensureCatalogue(ctx context.Context, dbPath string) error {
	writer, err := storage.Writer(ctx, dbPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	return storage.CreateTables(ctx, writer)
}
