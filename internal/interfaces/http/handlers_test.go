package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	registry := mcp.NewRegistry(nil, zap.NewNop())
	registry.Register("ping", func(context.Context, json.RawMessage) (any, error) {
		return map[string]string{"pong": "true"}, nil
	})

	return NewServer(DefaultServerConfig(), registry, NewZapLogger(zap.NewNop()))
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestListFunctions(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/functions", nil)
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Functions []string `json:"functions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"ping"}, resp.Functions)
}

func TestExecuteFunction(t *testing.T) {
	server := newTestServer(t)

	body, err := json.Marshal(mcp.FunctionCall{
		FunctionName: "ping",
		Parameters:   json.RawMessage(`{}`),
		RequestID:    "req-1",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp mcp.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "req-1", resp.RequestID)
}

func TestExecuteFunction_UnknownStillHTTP200(t *testing.T) {
	server := newTestServer(t)

	body := []byte(`{"function_name":"nope","request_id":"req-2"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp mcp.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "unknown function")
}

func TestExecuteFunction_MalformedBody(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
