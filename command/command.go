package command

import (
	"context"
	"errors"
	"fmt"
	"levyt/config"
	"levyt/tracing"
	"os"
	"os/signal"
	"strings"

	"github.com/hashicorp/cli"
	"github.com/posener/complete"
	"github.com/spf13/pflag"
)

type Command interface {
	Synopsis() string
	Flags() *pflag.FlagSet
	Execute(ctx context.Context, config *config.Config, args []string) error
}

func NewCommand(command Command) cli.CommandFactory {
	return func() (cli.Command, error) {
		return &commandWrapper{command: command}, nil
	}
}

type commandWrapper struct {
	command Command
}

func (cw *commandWrapper) Help() string {
	flags := cw.command.Flags()

	sb := strings.Builder{}
	sb.WriteString(cw.command.Synopsis())
	sb.WriteString("\n\n")

	if flags.HasFlags() {
		sb.WriteString("Flags:\n")
		sb.WriteString(flags.FlagUsages())
	}

	return sb.String()
}

func (cw *commandWrapper) Synopsis() string {
	return cw.command.Synopsis()
}

func (cw *commandWrapper) AutocompleteArgs() complete.Predictor {
	return complete.PredictFiles("*.xml")
}

func (cw *commandWrapper) AutocompleteFlags() complete.Flags {
	flags := complete.Flags{}

	cw.command.Flags().VisitAll(func(f *pflag.Flag) {
		flags["--"+f.Name] = complete.PredictAnything
	})

	return flags
}

func (cw *commandWrapper) Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	flags := cw.command.Flags()
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return cli.RunResultHelp
		}
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	shutdown, err := tracing.Configure(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	defer shutdown(context.Background())

	if err := cw.command.Execute(ctx, cfg, flags.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	return 0
}
