package convert

import (
	"context"
	"fmt"
	"levyt/config"
	"levyt/discogs"
	"levyt/tracing"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var tr = otel.Tracer("command.convert")

func NewConvertCommand() *ConvertCommand {
	return &ConvertCommand{}
}

type ConvertCommand struct {
	flags *pflag.FlagSet

	dir         string
	pattern     string
	missing     string
	keepPartial bool
	progress    bool
}

func (c *ConvertCommand) Synopsis() string {
	return "convert a discogs releases dump to csv"
}

func (c *ConvertCommand) Flags() *pflag.FlagSet {
	c.flags = pflag.NewFlagSet("convert", pflag.ContinueOnError)
	c.flags.StringVar(&c.dir, "dir", "", "directory to look for the releases dump in")
	c.flags.StringVar(&c.pattern, "pattern", "", "glob matching the releases dump (default "+discogs.DefaultPattern+")")
	c.flags.StringVar(&c.missing, "missing", "", "text written for a missing track position or title (default \"None\")")
	c.flags.BoolVar(&c.keepPartial, "keep-partial", false, "keep the csv written so far when conversion fails")
	c.flags.BoolVar(&c.progress, "progress", false, "show a running count of converted releases")
	return c.flags
}

func (c *ConvertCommand) Execute(ctx context.Context, config *config.Config, args []string) error {
	ctx, span := tr.Start(ctx, "execute")
	defer span.End()

	if len(args) != 0 {
		return tracing.Errorf(span, "this command takes no arguments, but received %d", len(args))
	}

	pattern := config.InputPattern
	if c.pattern != "" {
		pattern = c.pattern
	}

	missing := config.MissingValue
	if c.flags != nil && c.flags.Changed("missing") {
		missing = c.missing
	}

	input, err := discogs.FindReleasesFile(ctx, c.dir, pattern)
	if err != nil {
		return tracing.Error(span, err)
	}

	options := discogs.ConvertOptions{
		MissingValue: missing,
		KeepPartial:  c.keepPartial,
	}

	var summary discogs.Summary
	if c.progress {
		summary, err = c.convertWithProgress(ctx, input, options)
	} else {
		summary, err = discogs.Convert(ctx, input, options)
	}
	if err != nil {
		return tracing.Error(span, err)
	}

	span.SetAttributes(attribute.Int("releases", summary.Releases))

	fmt.Printf("Finished writing %s\n", summary.Output)

	return nil
}

func (c *ConvertCommand) convertWithProgress(ctx context.Context, input string, options discogs.ConvertOptions) (discogs.Summary, error) {
	ctx, span := tr.Start(ctx, "convert_with_progress")
	defer span.End()

	//add this opt if using the debugger tea.WithInput(nil)
	prg := tea.NewProgram(&model{
		input:   input,
		spinner: spinner.New(),
	})

	options.OnRelease = func(count int) {
		if count%1000 == 0 {
			prg.Send(releaseConverted{count: count})
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		summary, err := discogs.Convert(ctx, input, options)
		prg.Send(conversionFinished{summary: summary, err: err})
	}()

	final, err := prg.Run()

	// stop a conversion still running after the view quit, and let it clean up
	cancel()
	<-finished

	if err != nil {
		return discogs.Summary{}, tracing.Error(span, err)
	}

	m := final.(*model)
	if !m.done {
		return m.summary, tracing.Errorf(span, "conversion interrupted")
	}
	if m.err != nil {
		return m.summary, tracing.Error(span, m.err)
	}

	return m.summary, nil
}
