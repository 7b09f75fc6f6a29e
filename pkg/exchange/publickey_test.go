package exchange_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/platformoftrust/exchange-go/pkg/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKeyCreate(t *testing.T) {
	var body map[string]any
	calls := 0
	mux := newStubMux(t)
	mux.HandleFunc("/publickeys", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls++
		writeJSON(w, http.StatusCreated, map[string]any{
			"resourceUuid": "k-1",
			"node":         testNode,
			"algorithm":    "SHA256withRSA",
			"publicKey":    body["data"].(map[string]any)["publicKey"],
			"sub":          "sub-1",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	pemStr, err := s.PublicKeyPEM()
	require.NoError(t, err)

	pk := exchange.NewPublicKey(s)
	pk.Algorithm = "SHA256withRSA"
	pk.KeyMaterial = pemStr

	_, err = pk.Create(context.Background(), testNode)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"data": map[string]any{
			"algorithm": "SHA256withRSA",
			"publicKey": pemStr,
		},
	}, body)
	assert.Equal(t, "k-1", pk.ResourceUUID)
	assert.Equal(t, testNode, pk.Node)
	assert.Equal(t, "sub-1", pk.Sub)

	_, err = pk.Create(context.Background(), testNode)
	assert.ErrorIs(t, err, exchange.ErrAlreadyCreated)
	assert.Equal(t, 1, calls)
}

func TestPublicKeyFetch(t *testing.T) {
	mux := newStubMux(t)
	mux.HandleFunc("/publickeys/k-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"resourceUuid": "k-1",
			"node":         testNode,
			"algorithm":    "SHA256withRSA",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	pk := exchange.NewPublicKeyFromUUID(s, "k-1")

	_, err := pk.Fetch(context.Background(), testNode)
	require.NoError(t, err)
	assert.Equal(t, "SHA256withRSA", pk.Algorithm)

	pk = exchange.NewPublicKey(s)
	_, err = pk.Fetch(context.Background(), testNode)
	assert.ErrorIs(t, err, exchange.ErrNotCreated)
}

func TestPublicKeyAlgorithms(t *testing.T) {
	for name, payload := range map[string]map[string]any{
		"top level": {"algorithms": []string{"SHA256withRSA", "SHA512withRSA"}},
		"wrapped":   {"data": map[string]any{"algorithms": []string{"SHA256withRSA", "SHA512withRSA"}}},
	} {
		t.Run(name, func(t *testing.T) {
			mux := newStubMux(t)
			mux.HandleFunc("/publickeys/algorithms", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, payload)
			})
			srv := httptest.NewServer(mux)
			defer srv.Close()

			s := newTestSession(t, srv.URL)
			algos, err := exchange.PublicKeyAlgorithms(context.Background(), s, testNode)
			require.NoError(t, err)
			assert.Equal(t, []string{"SHA256withRSA", "SHA512withRSA"}, algos)
		})
	}
}
