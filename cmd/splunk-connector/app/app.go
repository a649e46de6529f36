package app

import (
	"github.com/venafi/splunk-connector/internal/app/splunk"
	"github.com/venafi/splunk-connector/internal/config"
	"github.com/venafi/splunk-connector/internal/handler/web"
	"github.com/venafi/splunk-connector/internal/logging"
	"github.com/venafi/splunk-connector/internal/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// New builds the Splunk connector webhook service
func New() *fx.App {
	var logger *zap.Logger

	app := fx.New(
		fx.Provide(
			logging.ConfigureLogger,
			loadConfig,
			metrics.New,
			web.ConfigureHTTPServers,
			fx.Annotate(splunk.NewSplunkClients, fx.As(new(splunk.ClientServices))),
			fx.Annotate(splunk.NewWebhookService, fx.As(new(web.WebhookService))),
		),
		fx.Invoke(
			web.RegisterHandlers,
		),
		fx.Populate(&logger),
	)

	if logger != nil {
		logger.Info("Splunk connector starting")
	}

	return app
}

func loadConfig() (*config.Config, error) {
	return config.Load(config.ServiceEnvPrefix)
}
