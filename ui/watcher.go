package ui

import (
	"context"
	"levyt/tracing"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// StartWatching runs every action for each change under paths until ctx is
// cancelled.
func StartWatching(ctx context.Context, paths []string, actions ...func(path string) error) error {
	ctx, span := tr.Start(ctx, "new_watcher")
	defer span.End()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return tracing.Error(span, err)
	}

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return tracing.Error(span, err)
		}
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				slog.InfoContext(ctx, "ui changed, reloading", "path", event.Name)

				for _, action := range actions {
					if err := action(event.Name); err != nil {
						slog.ErrorContext(ctx, "reload failed", "path", event.Name, "err", tracing.ErrorCtx(ctx, err))
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.ErrorContext(ctx, "watching ui failed", "err", tracing.ErrorCtx(ctx, err))
			}
		}
	}()

	return nil
}
