package ui

import (
	"context"
	"embed"
	"io/fs"
	"levyt/config"
	"levyt/routing"
	"levyt/template"
	"levyt/tracing"
	"levyt/ui/catalogue"
	"net/http"
	"os"
	"path"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tr = otel.Tracer("ui")

//go:embed common catalogue/*.html
var staticFiles embed.FS

const externalDir = "./ui"

func RegisterUI(ctx context.Context, cfg *config.Config, server *http.ServeMux) error {
	ctx, span := tr.Start(ctx, "register_handlers")
	defer span.End()

	hasExternal := hasExternalFiles()
	span.SetAttributes(attribute.Bool("ui.external", hasExternal))

	handlers := []routing.Handler{}

	var fs template.FS

	if hasExternal {
		fs = os.DirFS(externalDir).(template.FS)
	} else {
		fs = staticFiles
	}

	engine := template.NewTemplateEngine(fs, template.EngineOptions{
		HotReload:    hasExternal,
		MissingValue: cfg.MissingValue,
	})
	if err := engine.ParseTemplates(ctx); err != nil {
		return tracing.Error(span, err)
	}

	if hasExternal {
		hr := HotReload()
		handlers = append(handlers, hr.Register)

		err := StartWatching(ctx, allFolders(fs),
			func(path string) error { return engine.ParseTemplates(ctx) },
			func(path string) error { return hr.Reload(ctx) },
		)
		if err != nil {
			return tracing.Error(span, err)
		}
	}

	handlers = append(handlers, StaticFilesHandler(fs))

	handlers = append(handlers, catalogue.RegisterHandlers)

	for _, handler := range handlers {
		if err := handler(ctx, cfg, server, engine); err != nil {
			return tracing.Error(span, err)
		}
	}

	return nil
}

func hasExternalFiles() bool {
	if _, err := os.Stat(path.Join(externalDir, "common", "base.html")); os.IsNotExist(err) {
		return false
	}
	return true
}

func allFolders(fsys template.FS) []string {

	all := []string{}

	fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			all = append(all, path.Join(externalDir, p))
		}
		return nil
	})

	return all
}
