// Package config loads connector settings from built-in defaults and, optionally, the environment
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

// ServiceEnvPrefix is the environment prefix read by the webhook service
const ServiceEnvPrefix = "SPLUNK_CONNECTOR_"

// Splunk holds the optional connection parameters. Username and password are never part of
// the configuration; callers always supply them.
type Splunk struct {
	// Host of the Splunk instance, optionally with scheme. Default "http://Alis-MacBook-Pro.local".
	Host string `koanf:"host"`
	// Port of the Splunk instance. Default "8000".
	Port string `koanf:"port"`
	// Owner of the namespace. Default "admin".
	Owner string `koanf:"owner"`
	// App of the namespace. Default "search".
	App string `koanf:"app"`
	// Sharing mode: user, app, global or system. Default "user".
	Sharing string `koanf:"sharing"`
	// Scheme used when Host has none. Default "https".
	Scheme string `koanf:"scheme"`
	// InsecureSkipVerify disables TLS verification of the management port
	InsecureSkipVerify bool `koanf:"insecure_skip_verify"`
}

// Server holds the webhook service settings
type Server struct {
	Address        string `koanf:"address"`
	PayloadKeyPath string `koanf:"payload_key_path"`
}

// Config is the complete connector configuration
type Config struct {
	Splunk Splunk `koanf:"splunk"`
	Server Server `koanf:"server"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"splunk.host":                 "http://Alis-MacBook-Pro.local",
		"splunk.port":                 "8000",
		"splunk.owner":                "admin",
		"splunk.app":                  "search",
		"splunk.sharing":              "user",
		"splunk.scheme":               "https",
		"splunk.insecure_skip_verify": false,
		"server.address":              ":8080",
		"server.payload_key_path":     "/keys/payload-encryption-key.pem",
	}
}

// Default returns the built-in configuration
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// the defaults map is static, it always unmarshals
		panic(err)
	}
	return cfg
}

// Load reads the defaults and overlays environment variables starting with prefix. An empty
// prefix skips the environment entirely. SPLUNK_CONNECTOR_SPLUNK_HOST maps to splunk.host.
func Load(prefix string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default configuration: %w", err)
	}

	if prefix != "" {
		err := k.Load(env.Provider(prefix, ".", func(s string) string {
			return envKey(prefix, s)
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// envKey maps SPLUNK_CONNECTOR_SPLUNK_INSECURE_SKIP_VERIFY to splunk.insecure_skip_verify
func envKey(prefix, s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, prefix))
	section, field, found := strings.Cut(key, "_")
	if !found {
		return key
	}
	return section + "." + field
}
