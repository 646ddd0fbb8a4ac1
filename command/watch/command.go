package watch

import (
	"context"
	"levyt/config"
	"levyt/discogs"
	"levyt/tracing"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
)

var tr = otel.Tracer("command.watch")

func NewWatchCommand() *WatchCommand {
	return &WatchCommand{}
}

type WatchCommand struct {
	flags *pflag.FlagSet

	pattern     string
	missing     string
	settle      time.Duration
	keepPartial bool
}

func (c *WatchCommand) Synopsis() string {
	return "convert every releases dump written to a directory"
}

func (c *WatchCommand) Flags() *pflag.FlagSet {
	c.flags = pflag.NewFlagSet("watch", pflag.ContinueOnError)
	c.flags.StringVar(&c.pattern, "pattern", "", "glob matching the releases dumps (default "+discogs.DefaultPattern+")")
	c.flags.StringVar(&c.missing, "missing", "", "text written for a missing track position or title (default \"None\")")
	c.flags.DurationVar(&c.settle, "settle", 2*time.Second, "how long a dump must be left alone before converting it")
	c.flags.BoolVar(&c.keepPartial, "keep-partial", false, "keep the csv written so far when conversion fails")
	return c.flags
}

func (c *WatchCommand) Execute(ctx context.Context, config *config.Config, args []string) error {
	ctx, span := tr.Start(ctx, "execute")
	defer span.End()

	if len(args) > 1 {
		return tracing.Errorf(span, "this command takes at most 1 argument: a directory to watch")
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	pattern := config.InputPattern
	if c.pattern != "" {
		pattern = c.pattern
	}

	missing := config.MissingValue
	if c.flags != nil && c.flags.Changed("missing") {
		missing = c.missing
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return tracing.Error(span, err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return tracing.Error(span, err)
	}

	logger.Info("watching for releases dumps", "dir", dir, "pattern", pattern)

	w := &dumpWatcher{
		pattern: pattern,
		settle:  c.settle,
		logger:  logger,
		convert: func(ctx context.Context, path string) (discogs.Summary, error) {
			return discogs.Convert(ctx, path, discogs.ConvertOptions{
				MissingValue: missing,
				KeepPartial:  c.keepPartial,
			})
		},
	}

	return w.Run(ctx, watcher.Events, watcher.Errors)
}

type converter = func(ctx context.Context, path string) (discogs.Summary, error)

// dumpWatcher converts a matching file once no events have been seen for it
// within the settle period.
type dumpWatcher struct {
	pattern string
	settle  time.Duration
	logger  *slog.Logger
	convert converter
}

func (w *dumpWatcher) Run(ctx context.Context, events <-chan fsnotify.Event, errors <-chan error) error {
	pending := map[string]time.Time{}

	ticker := time.NewTicker(max(w.settle/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			if matched, _ := filepath.Match(w.pattern, filepath.Base(event.Name)); !matched {
				continue
			}

			pending[event.Name] = time.Now()

		case err, ok := <-errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher failed", "err", tracing.ErrorCtx(ctx, err))

		case now := <-ticker.C:
			for path, seen := range pending {
				if now.Sub(seen) < w.settle {
					continue
				}

				delete(pending, path)
				w.convertDump(ctx, path)
			}
		}
	}
}

func (w *dumpWatcher) convertDump(ctx context.Context, path string) {
	ctx, span := tr.Start(ctx, "convert_dump")
	defer span.End()

	w.logger.Info("converting", "input", path)

	summary, err := w.convert(ctx, path)
	if err != nil {
		w.logger.Error("conversion failed", "input", path, "err", tracing.Error(span, err))
		return
	}

	w.logger.Info("finished writing", "output", summary.Output, "releases", summary.Releases)
}
