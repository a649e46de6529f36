package web

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/venafi/splunk-connector/internal/config"
	"github.com/venafi/splunk-connector/internal/metrics"
	"gopkg.in/square/go-jose.v2"
)

type echoWebhookService struct{}

func (echoWebhookService) HandleTestConnection(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, string(body))
}

func writeKey(t *testing.T) (*rsa.PrivateKey, string) {
	pk, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "payload-encryption-key.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(pk)})
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return pk, path
}

func encrypt(t *testing.T, pk *rsa.PrivateKey, plaintext string) string {
	encrypter, err := jose.NewEncrypter(jose.A256GCM, jose.Recipient{Algorithm: jose.RSA_OAEP_256, Key: &pk.PublicKey}, nil)
	require.NoError(t, err)

	object, err := encrypter.Encrypt([]byte(plaintext))
	require.NoError(t, err)

	serialized, err := object.CompactSerialize()
	require.NoError(t, err)
	return serialized
}

func serve(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	e.ServeHTTP(recorder, request)
	return recorder
}

func TestRegisterHandlers(t *testing.T) {
	t.Run("plain payload", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.PayloadKeyPath = filepath.Join(t.TempDir(), "missing.pem")

		e := echo.New()
		require.NoError(t, RegisterHandlers(e, echoWebhookService{}, metrics.New(), cfg))

		recorder := serve(e, http.MethodGet, "/healthz", "")
		require.Equal(t, http.StatusOK, recorder.Code)
		require.Equal(t, "OK", recorder.Body.String())

		recorder = serve(e, http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, recorder.Code)

		recorder = serve(e, http.MethodPost, "/v1/testconnection", `{"connection":{}}`)
		require.Equal(t, http.StatusOK, recorder.Code)
		require.Equal(t, `{"connection":{}}`, recorder.Body.String())
	})

	t.Run("encrypted payload", func(t *testing.T) {
		pk, path := writeKey(t)

		cfg := config.Default()
		cfg.Server.PayloadKeyPath = path

		e := echo.New()
		require.NoError(t, RegisterHandlers(e, echoWebhookService{}, metrics.New(), cfg))

		recorder := serve(e, http.MethodPost, "/v1/testconnection", encrypt(t, pk, `{"connection":{"host":"splunk"}}`))
		require.Equal(t, http.StatusOK, recorder.Code)
		require.Equal(t, `{"connection":{"host":"splunk"}}`, recorder.Body.String())

		recorder = serve(e, http.MethodPost, "/v1/testconnection", `{"connection":{}}`)
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestLoadPayloadKey(t *testing.T) {
	_, err := loadPayloadKey(filepath.Join(t.TempDir(), "missing.pem"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "not-pem")
	require.NoError(t, os.WriteFile(path, []byte("not a key"), 0o600))
	_, err = loadPayloadKey(path)
	require.Error(t, err)

	pk, path := writeKey(t)
	loaded, err := loadPayloadKey(path)
	require.NoError(t, err)
	require.True(t, pk.Equal(loaded))
}
