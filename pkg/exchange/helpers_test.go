package exchange_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/platformoftrust/exchange-go/pkg/exchange"
	"github.com/stretchr/testify/require"
	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

const testNode = "123456"

// writeTestKeystore creates a PKCS#12 store with a fresh RSA identity and
// returns its path together with the private key.
func writeTestKeystore(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "node-" + testNode},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	data, err := pkcs12.Modern.Encode(key, cert, nil, "changeit")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "identity.p12")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path, key
}

// tokenHandler serves the OIDC token endpoint with a parseable JWT whose
// sub claim is fixed.
func tokenHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "11111111-2222-3333-4444-555555555555",
		}).SignedString([]byte("test-secret"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": signed,
			"token_type":   "Bearer",
			"expires_in":   300,
		})
	}
}

// newSession builds a session against the given stub server URL without
// authenticating it.
func newSession(t *testing.T, baseURL string, opts ...exchange.SessionOption) *exchange.Session {
	t.Helper()

	path, _ := writeTestKeystore(t)
	s, err := exchange.NewSession(exchange.SessionConfig{
		BaseURL:          baseURL,
		AuthURL:          baseURL,
		ClientID:         "test-client",
		ClientSecret:     "test-secret",
		KeyStorePath:     path,
		KeyStorePassword: "changeit",
	}, opts...)
	require.NoError(t, err)
	return s
}

// newTestSession builds an authenticated session against the given stub
// server URL. The stub must not shadow the token path.
func newTestSession(t *testing.T, baseURL string, opts ...exchange.SessionOption) *exchange.Session {
	t.Helper()

	s := newSession(t, baseURL, opts...)
	require.NoError(t, s.Authenticate(context.Background()))
	return s
}

// newStubMux returns a mux pre-wired with the token endpoint.
func newStubMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/realms/platformoftrust/protocol/openid-connect/token", tokenHandler(t))
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
