package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfs-interstop/engine"
	"github.com/theoremus-urban-solutions/gtfs-interstop/feed"
	"github.com/theoremus-urban-solutions/gtfs-interstop/internal/testfeed"
	"github.com/theoremus-urban-solutions/gtfs-interstop/server"
)

func testServer(t *testing.T) *server.Server {
	t.Helper()
	store, err := feed.NewStoreFromZipBytes(testfeed.Minimal(t, nil), nil)
	require.NoError(t, err)
	eng, err := engine.New(store, 0)
	require.NoError(t, err)
	return server.New(eng, nil, nil)
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string   `json:"status"`
		Tables []string `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Contains(t, body.Tables, "trips")
}

func TestHandleInterstop(t *testing.T) {
	srv := testServer(t)

	t.Run("valid date", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.HandleInterstop(rec, httptest.NewRequest(http.MethodGet, "/api/interstop.json?date=20230605", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var report engine.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Equal(t, 2, report.TripCount)
		assert.Contains(t, report.Routes, "R1")
	})

	t.Run("route filter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.HandleInterstop(rec, httptest.NewRequest(http.MethodGet, "/api/interstop.json?date=20230605&routes=R9", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var report engine.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Zero(t, report.TripCount)
	})

	t.Run("invalid date is a client error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.HandleInterstop(rec, httptest.NewRequest(http.MethodGet, "/api/interstop.json?date=2023-06-05", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "2023-06-05")
	})
}
