package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	require.Equal(t, "http://Alis-MacBook-Pro.local", cfg.Splunk.Host)
	require.Equal(t, "8000", cfg.Splunk.Port)
	require.Equal(t, "admin", cfg.Splunk.Owner)
	require.Equal(t, "search", cfg.Splunk.App)
	require.Equal(t, "user", cfg.Splunk.Sharing)
	require.Equal(t, "https", cfg.Splunk.Scheme)
	require.False(t, cfg.Splunk.InsecureSkipVerify)
	require.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoad(t *testing.T) {
	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SPLUNK_CONNECTOR_SPLUNK_HOST", "https://splunk.example.com")
		t.Setenv("SPLUNK_CONNECTOR_SPLUNK_PORT", "8089")
		t.Setenv("SPLUNK_CONNECTOR_SPLUNK_INSECURE_SKIP_VERIFY", "true")
		t.Setenv("SPLUNK_CONNECTOR_SERVER_ADDRESS", ":9090")

		cfg, err := Load(ServiceEnvPrefix)
		require.NoError(t, err)

		require.Equal(t, "https://splunk.example.com", cfg.Splunk.Host)
		require.Equal(t, "8089", cfg.Splunk.Port)
		require.True(t, cfg.Splunk.InsecureSkipVerify)
		require.Equal(t, ":9090", cfg.Server.Address)
		require.Equal(t, "search", cfg.Splunk.App)
	})

	t.Run("no prefix ignores environment", func(t *testing.T) {
		t.Setenv("SPLUNK_CONNECTOR_SPLUNK_HOST", "https://splunk.example.com")

		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, "http://Alis-MacBook-Pro.local", cfg.Splunk.Host)
	})
}

func TestEnvKey(t *testing.T) {
	require.Equal(t, "splunk.host", envKey(ServiceEnvPrefix, "SPLUNK_CONNECTOR_SPLUNK_HOST"))
	require.Equal(t, "server.payload_key_path", envKey(ServiceEnvPrefix, "SPLUNK_CONNECTOR_SERVER_PAYLOAD_KEY_PATH"))
	require.Equal(t, "debug", envKey(ServiceEnvPrefix, "SPLUNK_CONNECTOR_DEBUG"))
}
