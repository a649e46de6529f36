package splunk

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/venafi/splunk-connector/internal/app/domain"
	"go.uber.org/zap"
)

// TestConnectionRequest contains the request details for testing connectivity with a Splunk instance
type TestConnectionRequest struct {
	Connection *domain.Connection `json:"connection"`
}

// TestConnectionResponse contains the response for a TestConnectionRequest
type TestConnectionResponse struct {
	Result        bool   `json:"result"`
	ServerVersion string `json:"serverVersion,omitempty"`
}

// HandleTestConnection will attempt to connect to a Splunk instance
func (svc *WebhookServiceImpl) HandleTestConnection(c echo.Context) error {
	var err error

	req := TestConnectionRequest{}
	if err = c.Bind(&req); err != nil {
		zap.L().Error("invalid request, failed to unmarshall json", zap.Error(err))
		return c.String(http.StatusBadRequest, fmt.Sprintf("failed to unmarshall json: %s", err.Error()))
	}

	if req.Connection == nil {
		return c.String(http.StatusBadRequest, "missing connection")
	}

	svc.applyDefaults(req.Connection)

	res := TestConnectionResponse{
		Result: false,
	}

	client := svc.ClientServices.NewClient(req.Connection)
	err = svc.ClientServices.Connect(c.Request().Context(), client)
	svc.Metrics.ObserveConnection(err)
	defer func() {
		svc.ClientServices.Close(client)
	}()
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	res.Result = true
	res.ServerVersion = client.ServerVersion
	zap.L().Info("Success connecting to Splunk", zap.String("host", req.Connection.Host), zap.String("port", req.Connection.Port))
	return c.JSON(http.StatusOK, res)
}

func (svc *WebhookServiceImpl) applyDefaults(connection *domain.Connection) {
	if connection.Host == "" {
		connection.Host = svc.Defaults.Host
	}
	if connection.Port == "" {
		connection.Port = svc.Defaults.Port
	}
	if connection.Owner == "" {
		connection.Owner = svc.Defaults.Owner
	}
	if connection.App == "" {
		connection.App = svc.Defaults.App
	}
	if connection.Sharing == "" {
		connection.Sharing = svc.Defaults.Sharing
	}
}
