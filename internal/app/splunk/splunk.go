package splunk

import (
	"github.com/venafi/splunk-connector/internal/config"
	"github.com/venafi/splunk-connector/internal/metrics"
)

// WebhookServiceImpl serves the connector webhooks backed by ClientServices
type WebhookServiceImpl struct {
	ClientServices ClientServices
	Defaults       config.Splunk
	Metrics        *metrics.Metrics
}

// NewWebhookService will return a new WebhookServiceImpl
func NewWebhookService(clientServices ClientServices, cfg *config.Config, m *metrics.Metrics) *WebhookServiceImpl {
	svc := &WebhookServiceImpl{
		ClientServices: clientServices,
		Metrics:        m,
	}
	if cfg != nil {
		svc.Defaults = cfg.Splunk
	}
	return svc
}
