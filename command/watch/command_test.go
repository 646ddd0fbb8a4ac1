package watch

import (
	"context"
	"errors"
	"io"
	"levyt/discogs"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpWatcher(t *testing.T) {

	run := func(t *testing.T, send func(events chan<- fsnotify.Event), convert converter) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := make(chan fsnotify.Event)
		errs := make(chan error)

		w := &dumpWatcher{
			pattern: discogs.DefaultPattern,
			settle:  20 * time.Millisecond,
			logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
			convert: convert,
		}

		done := make(chan error)
		go func() { done <- w.Run(ctx, events, errs) }()

		send(events)
		time.Sleep(200 * time.Millisecond)

		cancel()
		require.NoError(t, <-done)
	}

	t.Run("converts a matching dump once it settles", func(t *testing.T) {
		lock := sync.Mutex{}
		converted := []string{}

		run(t, func(events chan<- fsnotify.Event) {
			events <- fsnotify.Event{Name: "in/discogs_20250101_releases.xml", Op: fsnotify.Create}
			events <- fsnotify.Event{Name: "in/discogs_20250101_releases.xml", Op: fsnotify.Write}
			events <- fsnotify.Event{Name: "in/discogs_20250101_releases.xml", Op: fsnotify.Write}
		}, func(ctx context.Context, path string) (discogs.Summary, error) {
			lock.Lock()
			defer lock.Unlock()
			converted = append(converted, path)
			return discogs.Summary{Input: path, Output: discogs.OutputPath(path)}, nil
		})

		lock.Lock()
		defer lock.Unlock()
		assert.Equal(t, []string{"in/discogs_20250101_releases.xml"}, converted)
	})

	t.Run("ignores other files and events", func(t *testing.T) {
		calls := 0

		run(t, func(events chan<- fsnotify.Event) {
			events <- fsnotify.Event{Name: "in/discogs_20250101_masters.xml", Op: fsnotify.Create}
			events <- fsnotify.Event{Name: "in/discogs_20250101_releases.csv", Op: fsnotify.Write}
			events <- fsnotify.Event{Name: "in/discogs_20250101_releases.xml", Op: fsnotify.Remove}
		}, func(ctx context.Context, path string) (discogs.Summary, error) {
			calls++
			return discogs.Summary{}, nil
		})

		assert.Zero(t, calls)
	})

	t.Run("keeps watching after a failed conversion", func(t *testing.T) {
		lock := sync.Mutex{}
		attempts := []string{}

		run(t, func(events chan<- fsnotify.Event) {
			events <- fsnotify.Event{Name: "discogs_a_releases.xml", Op: fsnotify.Create}
			time.Sleep(100 * time.Millisecond)
			events <- fsnotify.Event{Name: "discogs_b_releases.xml", Op: fsnotify.Create}
		}, func(ctx context.Context, path string) (discogs.Summary, error) {
			lock.Lock()
			defer lock.Unlock()
			attempts = append(attempts, path)
			return discogs.Summary{}, errors.New("broken dump")
		})

		lock.Lock()
		defer lock.Unlock()
		assert.Equal(t, []string{"discogs_a_releases.xml", "discogs_b_releases.xml"}, attempts)
	})
}
