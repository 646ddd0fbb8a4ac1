package discogs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"levyt/tracing"
	"os"

	"github.com/gofrs/flock"
	"go.opentelemetry.io/otel/attribute"
)

var ErrOutputLocked = errors.New("output is being written by another conversion")

type ConvertOptions struct {
	MissingValue string
	KeepPartial  bool

	// OnRelease is called after each row is written, with the running count.
	OnRelease func(count int)
}

type Summary struct {
	Input    string
	Output   string
	Releases int
}

// Convert streams every release of input into a csv file next to it. On
// failure the partially written csv is removed unless KeepPartial is set.
func Convert(ctx context.Context, input string, options ConvertOptions) (Summary, error) {
	ctx, span := tr.Start(ctx, "convert")
	defer span.End()

	summary := Summary{
		Input:  input,
		Output: OutputPath(input),
	}

	span.SetAttributes(
		attribute.String("convert.input", summary.Input),
		attribute.String("convert.output", summary.Output),
	)

	releases, closeInput, err := OpenReleases(input)
	if err != nil {
		return summary, tracing.Error(span, err)
	}
	defer closeInput()

	unlock, err := lockOutput(summary.Output)
	if err != nil {
		return summary, tracing.Error(span, err)
	}
	defer unlock()

	output, err := os.Create(summary.Output)
	if err != nil {
		return summary, tracing.Error(span, err)
	}

	count, err := writeRows(ctx, output, releases, options)
	summary.Releases = count
	span.SetAttributes(attribute.Int("convert.releases", count))

	if closeErr := output.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		if !options.KeepPartial {
			err = errors.Join(err, os.Remove(summary.Output))
		}
		return summary, tracing.Error(span, err)
	}

	return summary, nil
}

func writeRows(ctx context.Context, output io.Writer, releases iter.Seq2[*Element, error], options ConvertOptions) (int, error) {
	writer, err := NewRowWriter(output, options.MissingValue)
	if err != nil {
		return 0, err
	}

	for release, err := range releases {
		if err == nil {
			err = ctx.Err()
		}
		if err == nil {
			err = writer.Write(Extract(release))
		}
		if err != nil {
			return writer.Rows(), errors.Join(err, writer.Flush())
		}

		if options.OnRelease != nil {
			options.OnRelease(writer.Rows())
		}
	}

	return writer.Rows(), writer.Flush()
}

// lockOutput stops two conversions of the same dump from writing one csv.
func lockOutput(output string) (func(), error) {
	lockPath := output + ".lock"
	lock := flock.New(lockPath)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, output)
	}

	return func() {
		lock.Unlock()
		os.Remove(lockPath)
	}, nil
}
