//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

func newTestServer(t *testing.T) (*server, http.Handler) {
	t.Helper()
	useTestConfig(t)
	st, err := initStore(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	s := &server{store: st, threshold: 75}
	return s, s.routes()
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const matchBody = `{
	"source": "test",
	"packed": [
		{"customer": "Acme", "customer_po": "PO-1", "style": "S1", "color": "RED", "size": "M", "qty": 10},
		{"customer": "Acme", "customer_po": "PO-9999", "style": "S9", "color": "BLK", "size": "L", "qty": 2}
	],
	"orders": [
		{"customer": "Acme", "customer_po": "PO-1", "style": "S1", "color": "RED", "size": "M", "ordered_qty": 10}
	]
}`

func TestServer_Health(t *testing.T) {
	_, h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Match(t *testing.T) {
	s, h := newTestServer(t)

	rec := doRequest(t, h, http.MethodPost, "/v1/match", matchBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		RunID   string              `json:"run_id"`
		Stats   *model.RunStats     `json:"stats"`
		Results []model.MatchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.RunID)
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 2, resp.Stats.ResultRows)
	assert.Equal(t, 1, resp.Stats.ExactMatches)
	require.Len(t, resp.Results, 2)

	run, err := s.store.GetRun(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, "test", run.Source)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.InDelta(t, 75.0, run.Threshold, 0.001)
}

func TestServer_Match_DefaultSourceAndThreshold(t *testing.T) {
	s, h := newTestServer(t)

	body := `{"threshold": 90, "shipped": [{"customer": "Acme", "customer_po": "PO-1", "qty": 1}], "orders": []}`
	rec := doRequest(t, h, http.MethodPost, "/v1/match", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	run, err := s.store.GetRun(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, "api", run.Source)
	assert.InDelta(t, 90.0, run.Threshold, 0.001)
}

func TestServer_Match_BadRequests(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"packed": [`, "invalid request body"},
		{"unknown field", `{"bogus": true}`, "invalid request body"},
		{"threshold too high", `{"threshold": 150, "packed": [{"customer_po": "PO-1"}]}`, "threshold must be between 0 and 100"},
		{"negative threshold", `{"threshold": -1, "packed": [{"customer_po": "PO-1"}]}`, "threshold must be between 0 and 100"},
		{"no rows", `{"orders": [{"customer_po": "PO-1"}]}`, "packed or shipped rows are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/v1/match", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestServer_ListRuns(t *testing.T) {
	s, h := newTestServer(t)
	ctx := context.Background()

	for _, src := range []string{"a", "b", "c"} {
		_, err := s.store.CreateRun(ctx, src, 75)
		require.NoError(t, err)
	}
	failed, err := s.store.CreateRun(ctx, "d", 75)
	require.NoError(t, err)
	require.NoError(t, s.store.FailRun(ctx, failed.ID, "boom"))

	rec := doRequest(t, h, http.MethodGet, "/v1/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Runs []model.Run `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Runs, 4)

	rec = doRequest(t, h, http.MethodGet, "/v1/runs?status=failed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp.Runs = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, failed.ID, resp.Runs[0].ID)
	assert.Equal(t, "boom", resp.Runs[0].Error)

	rec = doRequest(t, h, http.MethodGet, "/v1/runs?limit=2&offset=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp.Runs = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Runs, 2)
}

func TestServer_ListRuns_Empty(t *testing.T) {
	_, h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/v1/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"runs":[]}`, rec.Body.String())
}

func TestServer_ListRuns_InvalidParams(t *testing.T) {
	_, h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/v1/runs?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "limit must be a non-negative integer")

	rec = doRequest(t, h, http.MethodGet, "/v1/runs?offset=-3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "offset must be a non-negative integer")
}

func TestServer_GetRun(t *testing.T) {
	s, h := newTestServer(t)

	run, err := s.store.CreateRun(context.Background(), "packed.csv", 80)
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodGet, "/v1/runs/"+run.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "packed.csv", got.Source)
	assert.Equal(t, model.RunStatusRunning, got.Status)
}

func TestServer_GetRun_NotFound(t *testing.T) {
	_, h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/v1/runs/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"run not found"}`, rec.Body.String())
}

func TestServer_GetRun_StoreClosed(t *testing.T) {
	s, h := newTestServer(t)
	require.NoError(t, s.store.Close())

	rec := doRequest(t, h, http.MethodGet, "/v1/runs/abc", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/match", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_UnknownRoute(t *testing.T) {
	_, h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/v2/runs", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolvePort(t *testing.T) {
	assert.Equal(t, 9090, resolvePort(9090, 8080))
	assert.Equal(t, 8080, resolvePort(0, 8080))
}

func TestStartServer_GracefulShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- startServer(ctx, http.NotFoundHandler(), port)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
