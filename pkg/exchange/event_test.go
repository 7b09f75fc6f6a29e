package exchange_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/platformoftrust/exchange-go/pkg/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFetch(t *testing.T) {
	ts := time.Date(2026, 8, 30, 16, 45, 0, 0, time.UTC)
	mux := newStubMux(t)
	mux.HandleFunc("/dossiers/d-1/records/r-1/events/e-1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		writeJSON(w, http.StatusOK, map[string]any{
			"resourceUuid": "e-1",
			"eventType":    "RecordConfirmed",
			"sub":          "sub-2",
			"businessKey":  "bk-1",
			"timestamp":    ts,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	e := exchange.NewEvent(s, "d-1", "r-1", "e-1")

	_, err := e.Fetch(context.Background(), testNode)
	require.NoError(t, err)
	assert.Equal(t, "RecordConfirmed", e.EventType)
	assert.Equal(t, "sub-2", e.Sub)
	assert.Equal(t, "bk-1", e.BusinessKey)
	assert.True(t, e.Timestamp.Equal(ts))
}

func TestEventFetchRequiresIdentifiers(t *testing.T) {
	srv := httptest.NewServer(newStubMux(t))
	defer srv.Close()

	s := newTestSession(t, srv.URL)

	for _, e := range []*exchange.Event{
		exchange.NewEvent(s, "", "r-1", "e-1"),
		exchange.NewEvent(s, "d-1", "", "e-1"),
		exchange.NewEvent(s, "d-1", "r-1", ""),
	} {
		_, err := e.Fetch(context.Background(), testNode)
		var verr *exchange.ValidationError
		assert.ErrorAs(t, err, &verr)
	}
}
