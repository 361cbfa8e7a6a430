package httpapi

import (
	"context"
	"encoding/json"
	"github.com/BarushevEA/fifo_ttl_cache/pkg"
	"github.com/BarushevEA/fifo_ttl_cache/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type rawResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, maxSize int) (*gin.Engine, types.ICacheInMemory[string, json.RawMessage], *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	cache := pkg.NewCache[string, json.RawMessage](context.Background()).WithMaxSize(maxSize)
	t.Cleanup(func() { _ = cache.Close() })
	return NewRouter(cache, zap.New(core)), cache, logs
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, rawResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp rawResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestRouter_Health(t *testing.T) {
	router, _, _ := newTestRouter(t, 10)

	rec, resp := doRequest(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"status":"healthy"}`, string(resp.Data))
}

func TestRouter_PutGetRemove(t *testing.T) {
	router, _, _ := newTestRouter(t, 10)

	rec, resp := doRequest(t, router, http.MethodPut, "/cache/a", `{"value":{"n":1}}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"key":"a"}`, string(resp.Data))

	rec, resp = doRequest(t, router, http.MethodPut, "/cache/a", `{"value":{"n":2}}`)
	assert.Equal(t, http.StatusOK, rec.Code, "overwrite reports the previous value")
	assert.JSONEq(t, `{"key":"a","value":{"n":1}}`, string(resp.Data))

	rec, resp = doRequest(t, router, http.MethodGet, "/cache/a", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"key":"a","value":{"n":2}}`, string(resp.Data))

	rec, resp = doRequest(t, router, http.MethodGet, "/cache/a/exists", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"exists":true}`, string(resp.Data))

	rec, resp = doRequest(t, router, http.MethodDelete, "/cache/a", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"key":"a","value":{"n":2}}`, string(resp.Data))

	rec, resp = doRequest(t, router, http.MethodGet, "/cache/a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "key not found", resp.Error)

	rec, _ = doRequest(t, router, http.MethodDelete, "/cache/a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_InvalidBody(t *testing.T) {
	router, cache, _ := newTestRouter(t, 10)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "value"},
		{"missing value", `{"other":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doRequest(t, router, http.MethodPut, "/cache/k", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
	assert.Zero(t, cache.Len())
}

func TestRouter_KeysValuesFollowEviction(t *testing.T) {
	router, _, _ := newTestRouter(t, 2)

	for _, key := range []string{"a", "b", "c"} {
		rec, _ := doRequest(t, router, http.MethodPut, "/cache/"+key, `{"value":"`+key+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	_, resp := doRequest(t, router, http.MethodGet, "/keys", "")
	assert.JSONEq(t, `["b","c"]`, string(resp.Data))

	_, resp = doRequest(t, router, http.MethodGet, "/values", "")
	assert.JSONEq(t, `["b","c"]`, string(resp.Data))

	_, resp = doRequest(t, router, http.MethodGet, "/cache/a/exists", "")
	assert.JSONEq(t, `{"exists":false}`, string(resp.Data))
}

func TestRouter_Stats(t *testing.T) {
	router, cache, _ := newTestRouter(t, 10)
	cache.Put("x", json.RawMessage(`1`))

	rec, resp := doRequest(t, router, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats Stats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, 1, stats.Len)
	assert.Equal(t, types.SweeperNotStarted.String(), stats.Sweeper)
	assert.NotEmpty(t, stats.Uptime)
}

func TestRouter_RequestID(t *testing.T) {
	router, _, logs := newTestRouter(t, 10)

	t.Run("generated", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodGet, "/health", "")
		id := rec.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "caller-id")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, "caller-id", rec.Header().Get(RequestIDHeader))
	})

	entries := logs.FilterMessage("request").FilterField(zap.String("request_id", "caller-id")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/health", entries[0].ContextMap()["path"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}
