package server

import (
	"context"
	"errors"
	"levyt/config"
	"levyt/tracing"
	"levyt/ui"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var tr = otel.Tracer("command.server")

func NewServerCommand() *ServerCommand {
	return &ServerCommand{}
}

type ServerCommand struct {
	address string
}

func (c *ServerCommand) Synopsis() string {
	return "browse the imported catalogue in a web browser"
}

func (c *ServerCommand) Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flags.StringVar(&c.address, "address", "localhost:4400", "host:port")
	return flags
}

func (c *ServerCommand) Execute(ctx context.Context, config *config.Config, args []string) error {
	ctx, span := tr.Start(ctx, "execute")

	mux := http.NewServeMux()
	if err := ui.RegisterUI(ctx, config, mux); err != nil {
		err = tracing.Error(span, err)
		span.End()
		return err
	}
	span.End()

	server := &http.Server{
		Addr:        c.address,
		Handler:     otelhttp.NewHandler(mux, "levyt"),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdown)
	}()

	slog.InfoContext(ctx, "listening", "address", c.address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
