package template

import (
	"context"
	"html/template"
	"io"
	"io/fs"
	"levyt/tracing"
	"path"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tr = otel.Tracer("template")

type FS interface {
	fs.ReadFileFS
	fs.ReadDirFS
}

type TemplateEngine struct {
	source  FS
	options EngineOptions

	lock      sync.RWMutex
	templates map[string]*template.Template
}

type EngineOptions struct {
	HotReload    bool
	MissingValue string
}

func NewTemplateEngine(source FS, options EngineOptions) *TemplateEngine {
	return &TemplateEngine{
		source:    source,
		options:   options,
		templates: map[string]*template.Template{},
	}
}

// ParseTemplates combines every file in common/ with each page template found
// one directory deep. It can be called again to pick up changes.
func (te *TemplateEngine) ParseTemplates(ctx context.Context) error {
	ctx, span := tr.Start(ctx, "parse_templates")
	defer span.End()

	dir, err := te.source.ReadDir("common")
	if err != nil {
		return tracing.Error(span, err)
	}

	commonContents := &strings.Builder{}
	for _, entry := range dir {
		if entry.IsDir() || !isTemplate(entry.Name()) {
			continue
		}

		content, err := te.source.ReadFile(path.Join("common", entry.Name()))
		if err != nil {
			return tracing.Error(span, err)
		}
		commonContents.Write(content)
	}

	dir, err = te.source.ReadDir(".")
	if err != nil {
		return tracing.Error(span, err)
	}

	templates := map[string]*template.Template{}
	for _, entry := range dir {
		if !entry.IsDir() {
			continue
		}

		// special handling for this dir
		if entry.Name() == "common" {
			continue
		}

		files, err := te.source.ReadDir(entry.Name())
		if err != nil {
			return tracing.Error(span, err)
		}

		for _, file := range files {
			if file.IsDir() || !isTemplate(file.Name()) {
				continue
			}

			name := path.Join(entry.Name(), file.Name())
			content, err := te.source.ReadFile(name)
			if err != nil {
				return tracing.Error(span, err)
			}

			combined := strings.Builder{}
			combined.WriteString(commonContents.String())
			combined.Write(content)

			tpl, err := template.New("main").Funcs(funcs(te.options)).Parse(combined.String())
			if err != nil {
				return tracing.Errorf(span, "parsing %s: %w", name, err)
			}

			templates[name] = tpl
		}
	}

	span.SetAttributes(attribute.Int("template.count", len(templates)))

	te.lock.Lock()
	te.templates = templates
	te.lock.Unlock()

	return nil
}

func (te *TemplateEngine) Render(ctx context.Context, template string, data any, writer io.Writer) error {
	ctx, span := tr.Start(ctx, "render")
	defer span.End()

	te.lock.RLock()
	tpl, found := te.templates[template]
	te.lock.RUnlock()

	span.SetAttributes(
		attribute.String("template.name", template),
		attribute.Bool("template.exists", found),
	)

	if !found {
		return tracing.Errorf(span, "no template called %s found", template)
	}

	fields := map[string]any{}
	if err := mapstructure.Decode(data, &fields); err != nil {
		return tracing.Error(span, err)
	}

	fields["Engine"] = te.options

	if err := tpl.ExecuteTemplate(writer, "base", fields); err != nil {
		return tracing.Error(span, err)
	}
	return nil
}

func isTemplate(name string) bool {
	return strings.HasSuffix(name, ".html")
}
