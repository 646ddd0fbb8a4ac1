package catalogue

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"levyt/config"
	"levyt/discogs"
	"levyt/storage"
	"levyt/tracing"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
)

var tr = otel.Tracer("command.catalogue")

func NewSearchCommand() *SearchCommand {
	return &SearchCommand{}
}

type SearchCommand struct {
	limit int
}

func (c *SearchCommand) Synopsis() string {
	return "search the catalogue for releases"
}

func (c *SearchCommand) Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("search", pflag.ContinueOnError)
	flags.IntVar(&c.limit, "limit", 25, "maximum number of releases to show")
	return flags
}

func (c *SearchCommand) Execute(ctx context.Context, config *config.Config, args []string) error {
	ctx, span := tr.Start(ctx, "execute")
	defer span.End()

	if len(args) != 1 {
		return tracing.Errorf(span, "this command expects 1 argument, but received %d", len(args))
	}

	searchTerm := args[0]

	reader, err := storage.Reader(ctx, config.DatabaseFile)
	if err != nil {
		return tracing.Error(span, err)
	}
	defer reader.Close()

	releases, err := storage.FindReleases(ctx, reader, searchTerm, c.limit)
	if err != nil {
		return tracing.Error(span, err)
	}

	if isTerminal(os.Stdout) {
		printReleases(os.Stdout, releases)
	} else if err := writeReleases(os.Stdout, releases); err != nil {
		return tracing.Error(span, err)
	}

	return nil
}

var columns = []string{"Id", "Title", "Artists", "Country", "Tracks"}

func row(release *discogs.Release) []string {
	return []string{
		release.ID,
		release.Title,
		strings.Join(release.Artists, ", "),
		release.Country,
		strconv.Itoa(len(release.Tracks)),
	}
}

func printReleases(w io.Writer, releases []*discogs.Release) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	header := table.Row{}
	for _, column := range columns {
		header = append(header, column)
	}
	tw.AppendHeader(header)

	for _, release := range releases {
		values := table.Row{}
		for _, value := range row(release) {
			values = append(values, value)
		}
		tw.AppendRow(values)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, WidthMax: 40},
		{Number: 5, Align: text.AlignRight},
	})
	tw.AppendFooter(table.Row{"", "", "", "Total", fmt.Sprint(len(releases))})

	tw.Render()
}

// writeReleases is the piped form of printReleases.
func writeReleases(w io.Writer, releases []*discogs.Release) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return err
	}

	for _, release := range releases {
		if err := writer.Write(row(release)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
