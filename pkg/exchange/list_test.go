package exchange_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/platformoftrust/exchange-go/pkg/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dossierPage(uuids ...string) []map[string]any {
	page := make([]map[string]any, 0, len(uuids))
	for _, id := range uuids {
		page = append(page, map[string]any{"resourceUuid": id, "nodes": []string{testNode}})
	}
	return page
}

func TestDossierListPaginates(t *testing.T) {
	all := []string{"d-1", "d-2", "d-3", "d-4", "d-5"}

	var offsets []int
	mux := newStubMux(t)
	mux.HandleFunc("/dossiers", func(w http.ResponseWriter, r *http.Request) {
		offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
		require.NoError(t, err)
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		require.NoError(t, err)
		offsets = append(offsets, offset)

		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  map[string]any{"dossiers": dossierPage(all[offset:end]...)},
			"total": len(all),
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	dl := exchange.NewDossierList(s)
	require.NoError(t, dl.Filters().SetLimit(2))

	items, err := dl.Fetch(context.Background(), testNode)
	require.NoError(t, err)
	require.NoError(t, dl.Err())

	assert.Equal(t, []int{0, 2, 4}, offsets)
	require.Len(t, items, len(all))
	for i, d := range items {
		assert.Equal(t, all[i], d.ResourceUUID)
	}
	assert.Equal(t, items, dl.Items())
}

func TestListStopsOnEmptyPage(t *testing.T) {
	calls := 0
	mux := newStubMux(t)
	mux.HandleFunc("/dossiers", func(w http.ResponseWriter, r *http.Request) {
		calls++
		// A total that would keep the offset loop running forever if the
		// empty page did not terminate it.
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  map[string]any{"dossiers": []any{}},
			"total": 10,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	dl := exchange.NewDossierList(s)

	items, err := dl.Fetch(context.Background(), testNode)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, calls)
}

func TestListKeepsPartialResultOnProtocolError(t *testing.T) {
	mux := newStubMux(t)
	mux.HandleFunc("/dossiers", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "0" {
			writeJSON(w, http.StatusOK, map[string]any{
				"data":  map[string]any{"dossiers": dossierPage("d-1", "d-2")},
				"total": 4,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "boom"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	dl := exchange.NewDossierList(s)
	require.NoError(t, dl.Filters().SetLimit(2))

	items, err := dl.Fetch(context.Background(), testNode)
	perr, ok := exchange.IsProtocolError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, perr.StatusCode)
	assert.ErrorIs(t, dl.Err(), err)

	require.Len(t, items, 2)
	assert.Equal(t, "d-1", items[0].ResourceUUID)
	assert.Equal(t, "d-2", items[1].ResourceUUID)
}

func TestListRefetchReplacesItems(t *testing.T) {
	pages := [][]string{{"d-1", "d-2"}, {"d-3"}}
	fetches := 0
	mux := newStubMux(t)
	mux.HandleFunc("/dossiers", func(w http.ResponseWriter, r *http.Request) {
		page := pages[fetches]
		fetches++
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  map[string]any{"dossiers": dossierPage(page...)},
			"total": len(page),
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	dl := exchange.NewDossierList(s)

	items, err := dl.Fetch(context.Background(), testNode)
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = dl.Fetch(context.Background(), testNode)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "d-3", items[0].ResourceUUID)
}

func TestWaitForMessageFindsLateArrival(t *testing.T) {
	calls := 0
	mux := newStubMux(t)
	mux.HandleFunc("/records", func(w http.ResponseWriter, r *http.Request) {
		calls++
		page := []map[string]any{}
		if calls >= 3 {
			page = append(page, map[string]any{
				"resourceUuid": "r-1",
				"dossierUuid":  "d-1",
				"status":       map[string]any{"value": exchange.StatusNew},
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  map[string]any{"records": page},
			"total": len(page),
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	rl := exchange.NewRecordList(s)

	items, err := rl.WaitForMessage(context.Background(), 5, 10*time.Millisecond, testNode)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "r-1", items[0].ResourceUUID)
	assert.Equal(t, 3, calls)
}

func TestWaitForMessageExhaustsRetries(t *testing.T) {
	calls := 0
	mux := newStubMux(t)
	mux.HandleFunc("/records", func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  map[string]any{"records": []any{}},
			"total": 0,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	rl := exchange.NewRecordList(s)

	items, err := rl.WaitForMessage(context.Background(), 2, time.Millisecond, testNode)
	require.NoError(t, err)
	require.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, 3, calls, "maxRetries of 2 means three attempts in total")
}

func TestWaitForMessageRetriesOnProtocolError(t *testing.T) {
	calls := 0
	mux := newStubMux(t)
	mux.HandleFunc("/records", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "busy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"records": []map[string]any{{
				"resourceUuid": "r-9",
				"dossierUuid":  "d-1",
			}}},
			"total": 1,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	rl := exchange.NewRecordList(s)

	items, err := rl.WaitForMessage(context.Background(), 3, time.Millisecond, testNode)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, calls)
}

func TestWaitForMessageStopsOnContextCancel(t *testing.T) {
	mux := newStubMux(t)
	mux.HandleFunc("/records", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  map[string]any{"records": []any{}},
			"total": 0,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	rl := exchange.NewRecordList(s)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := rl.WaitForMessage(ctx, 10, time.Hour, testNode)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second, "cancellation must interrupt the sleep")
}

func TestRecordListConfirmAll(t *testing.T) {
	confirmed := map[string]bool{}
	mux := newStubMux(t)
	mux.HandleFunc("/records", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"records": []map[string]any{
				{"resourceUuid": "r-1", "dossierUuid": "d-1"},
				{"resourceUuid": "r-2", "dossierUuid": "d-1"},
			}},
			"total": 2,
		})
	})
	for _, id := range []string{"r-1", "r-2"} {
		id := id
		mux.HandleFunc("/dossiers/d-1/records/"+id, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"resourceUuid": id,
				"dossierUuid":  "d-1",
				"status":       map[string]any{"value": exchange.StatusRead},
			})
		})
		mux.HandleFunc("/dossiers/d-1/records/"+id+"/confirm", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			confirmed[id] = true
			writeJSON(w, http.StatusOK, map[string]any{})
		})
	}
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	rl := exchange.NewRecordList(s)
	_, err := rl.Fetch(context.Background(), testNode)
	require.NoError(t, err)

	require.NoError(t, rl.ConfirmAll(context.Background(), testNode))
	assert.Equal(t, map[string]bool{"r-1": true, "r-2": true}, confirmed)
}

func TestDossierRecordListScopesPath(t *testing.T) {
	var path string
	mux := newStubMux(t)
	mux.HandleFunc("/dossiers/d-7/records", func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  map[string]any{"records": []any{}},
			"total": 0,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	rl := exchange.NewDossierRecordList(s, "d-7")
	_, err := rl.Fetch(context.Background(), testNode)
	require.NoError(t, err)
	assert.Equal(t, "/dossiers/d-7/records", path)
}

func TestEventListPaths(t *testing.T) {
	for name, tc := range map[string]struct {
		path string
	}{
		"dossier events": {path: "/dossiers/d-1/events"},
		"record events":  {path: "/dossiers/d-1/records/r-1/events"},
	} {
		t.Run(name, func(t *testing.T) {
			var seen string
			mux := newStubMux(t)
			mux.HandleFunc(tc.path, func(w http.ResponseWriter, r *http.Request) {
				seen = r.URL.Path
				writeJSON(w, http.StatusOK, map[string]any{
					"data":  map[string]any{"events": []map[string]any{{"resourceUuid": "e-1", "eventType": "RecordSent"}}},
					"total": 1,
				})
			})
			srv := httptest.NewServer(mux)
			defer srv.Close()

			s := newTestSession(t, srv.URL)
			var el *exchange.EventList
			if name == "dossier events" {
				el = exchange.NewEventList(s, "d-1")
			} else {
				el = exchange.NewRecordEventList(s, "d-1", "r-1")
			}

			items, err := el.Fetch(context.Background(), testNode)
			require.NoError(t, err)
			assert.Equal(t, tc.path, seen)
			require.Len(t, items, 1)
			assert.Equal(t, "e-1", items[0].ResourceUUID)
			assert.Equal(t, "d-1", items[0].DossierUUID)
		})
	}
}

func TestHookListDecodes(t *testing.T) {
	mux := newStubMux(t)
	mux.HandleFunc("/hooks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"hooks": []map[string]any{{
				"resourceUuid": "h-1",
				"url":          "https://listener.example.com/hook",
				"nodes":        []string{testNode},
			}}},
			"total": 1,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	hl := exchange.NewHookList(s)
	items, err := hl.Fetch(context.Background(), testNode)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://listener.example.com/hook", items[0].URL)
}

func TestPublicKeyListDecodes(t *testing.T) {
	mux := newStubMux(t)
	mux.HandleFunc("/publickeys", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"publickeys": []map[string]any{{
				"resourceUuid": "k-1",
				"algorithm":    "SHA256withRSA",
				"node":         testNode,
			}}},
			"total": 1,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestSession(t, srv.URL)
	pl := exchange.NewPublicKeyList(s)
	items, err := pl.Fetch(context.Background(), testNode)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SHA256withRSA", items[0].Algorithm)
	assert.Equal(t, testNode, items[0].Node)
}
