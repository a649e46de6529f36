// Package splunk contains logic specific for working with Splunk instances
package splunk

import (
	"context"
	"errors"
	"fmt"

	"github.com/venafi/splunk-connector/internal/app/domain"
	"github.com/venafi/splunk-connector/internal/config"
	"github.com/venafi/splunk-connector/internal/splunkapi"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source ./client.go -destination=./mocks/mock_client.go -package=mocks

// ErrInvalidSession is returned when a client holds no Splunk session
var ErrInvalidSession = errors.New("invalid session")

// ClientServices interfaces for interacting with Splunk
type ClientServices interface {
	// Close will log out the client session
	Close(client *domain.Client)
	// Connect will open a session on the Splunk instance
	Connect(ctx context.Context, client *domain.Client) error
	// GetServerInfo will return the server information of the connected instance
	GetServerInfo(ctx context.Context, client *domain.Client) (*splunkapi.ServerInfo, error)
	// NewClient will create a new client instance
	NewClient(connection *domain.Connection) *domain.Client
}

// SplunkClientsImpl implementation of ClientServices
type SplunkClientsImpl struct {
	scheme             string
	insecureSkipVerify bool
}

// NewSplunkClients will return a new Splunk client
func NewSplunkClients(cfg *config.Config) *SplunkClientsImpl {
	return &SplunkClientsImpl{
		scheme:             cfg.Splunk.Scheme,
		insecureSkipVerify: cfg.Splunk.InsecureSkipVerify,
	}
}

// Close will logout the client session
func (c *SplunkClientsImpl) Close(client *domain.Client) {
	if client == nil || client.Session == nil {
		return
	}

	unwrapped, ok := client.Session.(*splunkapi.Service)
	if !ok {
		return
	}

	unwrapped.Logout()
	client.Session = nil
}

// Connect will attempt to create a new client session and connect to the Splunk instance
func (c *SplunkClientsImpl) Connect(ctx context.Context, client *domain.Client) error {
	var err error

	conn := client.Connection
	zap.L().Info("attempting to connect to Splunk", zap.String("host", conn.Host), zap.String("port", conn.Port))

	var svc *splunkapi.Service

	svc, err = splunkapi.Connect(ctx, splunkapi.Args{
		Host:               conn.Host,
		Port:               conn.Port,
		Scheme:             c.scheme,
		Username:           conn.Username,
		Password:           conn.Password,
		Owner:              conn.Owner,
		App:                conn.App,
		Sharing:            conn.Sharing,
		InsecureSkipVerify: c.insecureSkipVerify,
	})
	if err != nil {
		zap.L().Error("failed to connect to the Splunk host", zap.String("host", conn.Host), zap.String("port", conn.Port), zap.Error(err))
		return err
	}

	info, err := svc.Info(ctx)
	if err != nil {
		svc.Logout()
		zap.L().Error("failed reading the Splunk server info", zap.String("host", conn.Host), zap.String("port", conn.Port), zap.Error(err))
		return fmt.Errorf("failed reading the Splunk server info: %w", err)
	}

	if len(info.Version) == 0 {
		svc.Logout()
		err = errors.New("empty response data")
		zap.L().Error("failed reading the Splunk server version", zap.String("host", conn.Host), zap.String("port", conn.Port), zap.Error(err))
		return fmt.Errorf("failed reading the Splunk server version: %w", err)
	}

	client.Session = svc
	client.ServerVersion = info.Version
	return nil
}

// GetServerInfo will return the server information of the connected instance
func (c *SplunkClientsImpl) GetServerInfo(ctx context.Context, client *domain.Client) (*splunkapi.ServerInfo, error) {
	unwrapped, ok := client.Session.(*splunkapi.Service)
	if !ok || unwrapped == nil {
		return nil, ErrInvalidSession
	}

	return unwrapped.Info(ctx)
}

// NewClient will create a new client instance
func (c *SplunkClientsImpl) NewClient(connection *domain.Connection) *domain.Client {
	return &domain.Client{
		Connection: connection,
		Session:    nil,
	}
}
