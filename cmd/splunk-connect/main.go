// Command splunk-connect makes a single connection attempt against the demo Splunk instance
// and reports the outcome on stdout. It always exits with status 0.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/venafi/splunk-connector/internal/app/connector"
	"github.com/venafi/splunk-connector/internal/app/splunk"
	"github.com/venafi/splunk-connector/internal/config"
	"github.com/venafi/splunk-connector/internal/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	demoUsername = "admin"
	demoPassword = "admin123"
)

func main() {
	run(context.Background(), os.Stdout, fx.Annotate(splunk.NewSplunkClients, fx.As(new(splunk.ClientServices))))
}

// run wires the connector and makes one attempt. clientServices is an fx constructor for
// splunk.ClientServices. Nothing escapes run: errors and panics are written to out.
func run(ctx context.Context, out io.Writer, clientServices interface{}) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(out, r)
		}
	}()

	app := fx.New(
		fx.NopLogger,
		fx.Supply(config.Default()),
		fx.Provide(
			logging.ConfigureLogger,
			clientServices,
		),
		fx.Invoke(func(logger *zap.Logger, cfg *config.Config, clients splunk.ClientServices) {
			client, err := connector.New(clients, cfg.Splunk, out).Connect(ctx, demoUsername, demoPassword)
			if err != nil {
				return
			}
			logger.Debug("splunk session open", zap.String("version", client.ServerVersion))
		}),
	)

	if err := app.Err(); err != nil {
		fmt.Fprintln(out, err)
	}
}
