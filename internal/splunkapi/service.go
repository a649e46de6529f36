// Package splunkapi is a small client for the Splunk REST API. It covers session login,
// namespaces and server info, which is all the connector needs from a Splunk instance.
package splunkapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultScheme is used when the host carries no scheme of its own
	DefaultScheme = "https"
	// DefaultTimeout is the HTTP request timeout when none is configured
	DefaultTimeout = 30 * time.Second

	loginPath = "/services/auth/login"
	infoPath  = "server/info"
)

// ErrInvalidSharing is returned for a sharing mode other than user, app, global or system
var ErrInvalidSharing = errors.New("invalid sharing mode")

// ErrNotLoggedIn is returned when a request is made on a service without a session token
var ErrNotLoggedIn = errors.New("not logged in")

// Args are the values used to open a session. They are passed on exactly as given.
type Args struct {
	Host     string
	Port     string
	Scheme   string
	Username string
	Password string
	Owner    string
	App      string
	Sharing  string

	// InsecureSkipVerify disables TLS certificate verification
	InsecureSkipVerify bool
	// Timeout is the HTTP request timeout (defaults to DefaultTimeout if zero)
	Timeout time.Duration
	// HTTPClient overrides the HTTP client built from InsecureSkipVerify and Timeout
	HTTPClient *http.Client
}

// Service is an authenticated handle to a Splunk instance
type Service struct {
	baseURL    string
	namespace  string
	username   string
	password   string
	token      string
	httpClient *http.Client
}

// ServerInfo holds the fields of /services/server/info used by the connector
type ServerInfo struct {
	ServerName string `json:"serverName"`
	Version    string `json:"version"`
	Build      string `json:"build"`
}

// NewService builds a service for args without logging in
func NewService(args Args) (*Service, error) {
	base, err := authority(args.Scheme, args.Host, args.Port)
	if err != nil {
		return nil, err
	}

	ns, err := Namespace(args.Sharing, args.Owner, args.App)
	if err != nil {
		return nil, err
	}

	hc := args.HTTPClient
	if hc == nil {
		timeout := args.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}

		hc = &http.Client{Timeout: timeout}
		if args.InsecureSkipVerify {
			hc.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // self-signed management certificates
			}
		}
	}

	return &Service{
		baseURL:    base,
		namespace:  ns,
		username:   args.Username,
		password:   args.Password,
		httpClient: hc,
	}, nil
}

// Connect creates a service and logs in with the supplied credentials
func Connect(ctx context.Context, args Args) (*Service, error) {
	s, err := NewService(args)
	if err != nil {
		return nil, err
	}

	if err = s.Login(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Login exchanges the username and password for a session key
func (s *Service) Login(ctx context.Context) error {
	form := url.Values{}
	form.Set("username", s.username)
	form.Set("password", s.password)
	form.Set("output_mode", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var res struct {
		SessionKey string `json:"sessionKey"`
	}
	if err = s.do(req, &res); err != nil {
		return err
	}

	if res.SessionKey == "" {
		return errors.New("login response carried no session key")
	}

	s.token = res.SessionKey
	zap.L().Debug("logged in to splunk", zap.String("url", s.baseURL), zap.String("username", s.username))
	return nil
}

// Logout drops the session token. The service can log in again afterwards.
func (s *Service) Logout() {
	s.token = ""
}

// LoggedIn reports whether the service holds a session token
func (s *Service) LoggedIn() bool {
	return s.token != ""
}

// Token returns the current session key
func (s *Service) Token() string {
	return s.token
}

// BaseURL returns scheme://host:port of the instance
func (s *Service) BaseURL() string {
	return s.baseURL
}

// Path resolves an endpoint name relative to the service namespace
func (s *Service) Path(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return s.namespace + name
}

// Info returns the server information of the connected instance
func (s *Service) Info(ctx context.Context) (*ServerInfo, error) {
	var res struct {
		Entry []struct {
			Content ServerInfo `json:"content"`
		} `json:"entry"`
	}

	if err := s.Get(ctx, infoPath, &res); err != nil {
		return nil, err
	}

	if len(res.Entry) == 0 {
		return nil, errors.New("empty server info response")
	}

	return &res.Entry[0].Content, nil
}

// Get performs an authenticated GET on a namespaced endpoint and decodes the JSON response
func (s *Service) Get(ctx context.Context, name string, result any) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+s.Path(name)+"?output_mode=json", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Splunk "+s.token)

	return s.do(req, result)
}

func (s *Service) do(req *http.Request, result any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return newHTTPError(resp.StatusCode, body)
	}

	if result == nil {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// Namespace returns the endpoint prefix for a sharing mode and owner/app context
func Namespace(sharing, owner, app string) (string, error) {
	switch sharing {
	case "", "user":
		if owner == "" && app == "" {
			return "/services/", nil
		}
		return fmt.Sprintf("/servicesNS/%s/%s/", wildcard(owner), wildcard(app)), nil
	case "app", "global":
		return fmt.Sprintf("/servicesNS/nobody/%s/", wildcard(app)), nil
	case "system":
		return "/servicesNS/nobody/system/", nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidSharing, sharing)
}

func wildcard(v string) string {
	if v == "" {
		return "-"
	}
	return url.PathEscape(v)
}

func authority(scheme, host, port string) (string, error) {
	if host == "" {
		return "", errors.New("host is required")
	}

	if scheme == "" {
		scheme = DefaultScheme
	}

	raw := host
	if !strings.Contains(host, "://") {
		raw = scheme + "://" + host
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid host %q: %w", host, err)
	}

	if u.Host == "" {
		return "", fmt.Errorf("invalid host %q", host)
	}

	if u.Port() == "" && port != "" {
		u.Host = net.JoinHostPort(u.Hostname(), port)
	}

	return u.Scheme + "://" + u.Host, nil
}
