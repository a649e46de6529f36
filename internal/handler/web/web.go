// Package web contains the web server and registered routes
package web

import (
	"bytes"
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/venafi/splunk-connector/internal/config"
	"github.com/venafi/splunk-connector/internal/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/square/go-jose.v2"
)

// WebhookService ...
type WebhookService interface {
	HandleTestConnection(c echo.Context) error
}

// ConfigureHTTPServers creates the echo engine serving the API and binds it to the fx lifecycle
func ConfigureHTTPServers(lifecycle fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				zap.L().Info("starting http server", zap.String("address", cfg.Server.Address))
				if err := e.Start(cfg.Server.Address); err != nil && err != http.ErrServerClosed {
					zap.L().Error("failed to start echo server", zap.Error(err))
					if err = shutdowner.Shutdown(); err != nil {
						zap.L().Error("fx shutdown error", zap.Error(err))
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})

	return e, nil
}

// RegisterHandlers adds the health, metrics and webhook routes
func RegisterHandlers(e *echo.Echo, whService WebhookService, m *metrics.Metrics, cfg *config.Config) error {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	g := e.Group("/v1")
	addPayloadEncryptionMiddleware(g, cfg.Server.PayloadKeyPath)
	g.POST("/testconnection", whService.HandleTestConnection)

	return nil
}

func addPayloadEncryptionMiddleware(g *echo.Group, keyPath string) {
	pk, err := loadPayloadKey(keyPath)
	if err != nil {
		zap.L().Error("payload encryption key not loaded", zap.String("path", keyPath), zap.Error(err))
		return
	}

	zap.L().Info("adding payload encryption middleware")
	g.Use(payloadDecryption(pk))
}

func loadPayloadKey(keyPath string) (*rsa.PrivateKey, error) {
	privateKeyPemData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}
	p, _ := pem.Decode(privateKeyPemData)
	if p == nil {
		return nil, errors.New("payload encryption key not in PEM format")
	}
	return x509.ParsePKCS1PrivateKey(p.Bytes)
}

func payloadDecryption(pk *rsa.PrivateKey) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return err
			}
			object, err := jose.ParseEncrypted(string(body))
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid encrypted payload")
			}
			decrypted, err := object.Decrypt(pk)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "failed to decrypt payload")
			}
			req.Body = io.NopCloser(bytes.NewReader(decrypted))
			return next(c)
		}
	}
}
