// Package connector opens a single Splunk session and reports the outcome as plain text
package connector

import (
	"context"
	"fmt"
	"io"

	"github.com/venafi/splunk-connector/internal/app/domain"
	"github.com/venafi/splunk-connector/internal/app/splunk"
	"github.com/venafi/splunk-connector/internal/config"
	"go.uber.org/zap"
)

const (
	successLine   = "Splunk service created successfully"
	separatorLine = "-----------------------------------"
)

// Connector opens Splunk sessions with a fixed set of connection parameters
type Connector struct {
	clients splunk.ClientServices
	params  config.Splunk
	out     io.Writer
}

// New returns a Connector that connects through clients using params and writes status lines to out
func New(clients splunk.ClientServices, params config.Splunk, out io.Writer) *Connector {
	return &Connector{
		clients: clients,
		params:  params,
		out:     out,
	}
}

// Connect makes one attempt to open a session. On success it writes the two confirmation lines and
// returns the connected client. On failure it writes the error message and returns a nil client
// with the error. The session is left open; the caller owns it.
func (c *Connector) Connect(ctx context.Context, username, password string) (*domain.Client, error) {
	client := c.clients.NewClient(&domain.Connection{
		Username: username,
		Password: password,
		Host:     c.params.Host,
		Port:     c.params.Port,
		Owner:    c.params.Owner,
		App:      c.params.App,
		Sharing:  c.params.Sharing,
	})

	if err := c.clients.Connect(ctx, client); err != nil {
		zap.L().Debug("splunk connection failed", zap.String("host", c.params.Host), zap.String("port", c.params.Port), zap.Error(err))
		fmt.Fprintln(c.out, err.Error())
		return nil, err
	}

	fmt.Fprintln(c.out, successLine)
	fmt.Fprintln(c.out, separatorLine)
	return client, nil
}
