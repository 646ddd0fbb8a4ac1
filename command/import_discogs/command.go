package import_discogs

import (
	"context"
	"database/sql"
	"io"
	"iter"
	"levyt/config"
	"levyt/discogs"
	"levyt/storage"
	"levyt/tracing"
	"os"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var tr = otel.Tracer("command.import.discogs")

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

type ImportCommand struct {
	dir     string
	pattern string
}

func (c *ImportCommand) Synopsis() string {
	return "import a discogs releases dump into the catalogue"
}

func (c *ImportCommand) Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("import.discogs", pflag.ContinueOnError)
	flags.StringVar(&c.dir, "dir", "", "directory to look for the releases dump in, when no path is given")
	flags.StringVar(&c.pattern, "pattern", "", "glob matching the releases dump, when no path is given")
	return flags
}

func (c *ImportCommand) Execute(ctx context.Context, config *config.Config, args []string) error {
	ctx, span := tr.Start(ctx, "execute")
	defer span.End()

	if len(args) > 1 {
		return tracing.Errorf(span, "this command takes at most 1 argument: a releases dump to import")
	}

	filePath, err := c.sourceFile(ctx, config, args)
	if err != nil {
		return tracing.Error(span, err)
	}
	span.SetAttributes(attribute.String("import.source", filePath))

	file, err := os.Open(filePath)
	if err != nil {
		return tracing.Error(span, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return tracing.Error(span, err)
	}

	db, err := storage.Writer(ctx, config.DatabaseFile)
	if err != nil {
		return tracing.Error(span, err)
	}
	defer db.Close()

	if err := storage.CreateTables(ctx, db); err != nil {
		return tracing.Error(span, err)
	}

	//add this opt if using the debugger tea.WithInput(nil)
	prg := tea.NewProgram(&model{
		source:   filePath,
		size:     info.Size(),
		progress: progress.New(progress.WithDefaultGradient()),
		fts:      spinner.New(),
	})

	reader := &countingReader{reader: file}
	ctx, cancel := context.WithCancel(ctx)
	finished := make(chan error, 1)

	go func() {
		finished <- c.importReleases(ctx, db, filePath, reader, prg.Send)
	}()

	final, runErr := prg.Run()
	cancel()
	importErr := <-finished

	if runErr != nil {
		return tracing.Error(span, runErr)
	}
	if importErr != nil {
		return tracing.Error(span, importErr)
	}
	if m := final.(*model); !m.done {
		return tracing.Errorf(span, "import interrupted")
	}

	return nil
}

func (c *ImportCommand) sourceFile(ctx context.Context, config *config.Config, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	pattern := config.InputPattern
	if c.pattern != "" {
		pattern = c.pattern
	}

	return discogs.FindReleasesFile(ctx, c.dir, pattern)
}

func (c *ImportCommand) importReleases(ctx context.Context, db *sql.DB, source string, reader *countingReader, notify func(msg tea.Msg)) error {
	ctx, span := tr.Start(ctx, "import_releases")
	defer span.End()

	count, err := importReleases(ctx, db, source, discogs.Releases(reader), func(count int) {
		if count%500 == 0 {
			notify(releaseImported{count: count, bytesRead: reader.read})
		}
	}, func() {
		notify(ftsStarted{})
	})
	if err != nil {
		notify(releaseImported{err: err})
		return tracing.Error(span, err)
	}

	span.SetAttributes(attribute.Int("import.releases", count))
	notify(fileImported{count: count})

	return nil
}

// importReleases writes every release in one transaction and rebuilds the
// search index before committing.
func importReleases(ctx context.Context, db *sql.DB, source string, releases iter.Seq2[*discogs.Element, error], onRelease func(count int), onIndexing func()) (int, error) {
	ctx, span := tr.Start(ctx, "write_releases")
	defer span.End()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, tracing.Error(span, err)
	}
	defer tx.Rollback()

	importID, err := storage.StartImport(ctx, tx, source)
	if err != nil {
		return 0, tracing.Error(span, err)
	}
	span.SetAttributes(attribute.String("import.id", importID.String()))

	insert, err := storage.InsertRelease(ctx, tx, importID)
	if err != nil {
		return 0, tracing.Error(span, err)
	}
	defer insert.Close(ctx)

	count := 0
	for element, err := range releases {
		if err != nil {
			return count, tracing.Error(span, err)
		}

		if _, err := insert.Exec(ctx, discogs.Extract(element)); err != nil {
			return count, tracing.Error(span, err)
		}
		count++

		onRelease(count)
	}

	onIndexing()

	if err := storage.RebuildSearchIndex(ctx, tx); err != nil {
		return count, tracing.Error(span, err)
	}

	if err := storage.FinishImport(ctx, tx, importID, count); err != nil {
		return count, tracing.Error(span, err)
	}

	if err := tx.Commit(); err != nil {
		return count, tracing.Error(span, err)
	}

	return count, nil
}

type countingReader struct {
	reader io.Reader
	read   int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.read += int64(n)
	return n, err
}
