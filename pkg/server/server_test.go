package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/toast/pkg/metrics"
	"github.com/vango-dev/toast/pkg/toast"
	"github.com/vango-dev/toast/pkg/toast/toasttest"
)

type fixture struct {
	srv    *Server
	ts     *httptest.Server
	clock  *toasttest.Clock
	client *http.Client
}

func newFixture(t *testing.T, opts ...toast.ManagerOption) *fixture {
	t.Helper()
	clock := toasttest.NewClock(time.Time{})
	opts = append([]toast.ManagerOption{
		toast.WithClock(clock),
		toast.WithIDGenerator(toast.SequentialIDs("toast")),
	}, opts...)

	srv := New(toast.New(opts...), Config{})
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return &fixture{srv: srv, ts: ts, clock: clock, client: ts.Client()}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
	}
	req, err := http.NewRequest(method, f.ts.URL+path, r)
	require.NoError(t, err)
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *fixture) create(t *testing.T, req CreateRequest) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/toasts", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out CreateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

type listResponse struct {
	Version    uint64           `json:"version"`
	Position   string           `json:"position"`
	MaxVisible int              `json:"maxVisible"`
	Total      int              `json:"total"`
	Toasts     []map[string]any `json:"toasts"`
}

func (f *fixture) list(t *testing.T) listResponse {
	t.Helper()
	resp := f.do(t, http.MethodGet, "/toasts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out listResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func int64p(v int64) *int64 { return &v }
func boolp(v bool) *bool    { return &v }

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndList(t *testing.T) {
	f := newFixture(t)

	id := f.create(t, CreateRequest{
		Message: "Hello!",
		Type:    "success",
		Title:   "Greeting",
		Action:  &toast.Action{Label: "Undo", ID: "undo-1"},
	})
	assert.Equal(t, "toast-1", id)

	got := f.list(t)
	assert.Equal(t, "top-right", got.Position)
	assert.Equal(t, 5, got.MaxVisible)
	assert.Equal(t, 1, got.Total)
	require.Len(t, got.Toasts, 1)

	item := got.Toasts[0]
	assert.Equal(t, id, item["id"])
	assert.Equal(t, "Hello!", item["message"])
	assert.Equal(t, "success", item["type"])
	assert.Equal(t, "Greeting", item["title"])
	assert.Equal(t, true, item["dismissible"])
	assert.Equal(t, float64(5000), item["duration"])
	assert.Equal(t, float64(100), item["progressPercent"])
}

func TestCreatePersistent(t *testing.T) {
	f := newFixture(t)

	id := f.create(t, CreateRequest{Message: "Error!", Type: "error", Duration: int64p(0)})
	f.clock.Advance(time.Hour)

	got := f.list(t)
	require.Len(t, got.Toasts, 1)
	assert.Equal(t, id, got.Toasts[0]["id"])
	assert.NotContains(t, got.Toasts[0], "progressPercent")
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body any
	}{
		{"empty message", CreateRequest{Message: "  "}},
		{"unknown type", CreateRequest{Message: "x", Type: "fatal"}},
		{"negative duration", CreateRequest{Message: "x", Duration: int64p(-1)}},
		{"duration overflows", CreateRequest{Message: "x", Duration: int64p(9_300_000_000_000)}},
		{"duration wraps positive", CreateRequest{Message: "x", Duration: int64p(18_446_744_073_710)}},
		{"incomplete action", CreateRequest{Message: "x", Action: &toast.Action{Label: "Undo"}}},
		{"malformed json", "{nope"},
		{"unknown field", `{"message":"x","color":"red"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(t, http.MethodPost, "/toasts", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "T201", body.Error.Code)
		})
	}

	assert.Equal(t, 0, f.srv.Manager().Len())
}

func TestCreateLongestDuration(t *testing.T) {
	f := newFixture(t)

	id := f.create(t, CreateRequest{Message: "x", Duration: int64p(maxDurationMillis)})
	f.clock.Advance(time.Minute)

	n, ok := f.srv.Manager().Get(id)
	require.True(t, ok, "toast expired early")
	assert.False(t, n.Persistent())
	assert.Equal(t, time.Duration(maxDurationMillis)*time.Millisecond, n.Duration)
}

func TestVisibleCapOverHTTP(t *testing.T) {
	f := newFixture(t, toast.WithMaxVisible(3))

	var ids []string
	for i := 0; i < 7; i++ {
		ids = append(ids, f.create(t, CreateRequest{Message: "m"}))
	}

	got := f.list(t)
	assert.Equal(t, 7, got.Total)
	require.Len(t, got.Toasts, 3)
	for i, item := range got.Toasts {
		assert.Equal(t, ids[4+i], item["id"])
	}
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, CreateRequest{Message: "x"})

	resp := f.do(t, http.MethodGet, "/toasts/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/toasts/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDismiss(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, CreateRequest{Message: "x"})

	resp := f.do(t, http.MethodDelete, "/toasts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/toasts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "second dismiss is a no-op")

	assert.Empty(t, f.list(t).Toasts)
}

func TestDismissNotDismissible(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, CreateRequest{Message: "x", Dismissible: boolp(false)})

	resp := f.do(t, http.MethodDelete, "/toasts/"+id, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, 1, f.srv.Manager().Len())
}

func TestPauseResume(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, CreateRequest{Message: "x", Duration: int64p(1000)})

	resp := f.do(t, http.MethodPost, "/toasts/"+id+"/pause", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	f.clock.Advance(time.Minute)
	got := f.list(t)
	require.Len(t, got.Toasts, 1)
	assert.Equal(t, true, got.Toasts[0]["paused"])

	resp = f.do(t, http.MethodPost, "/toasts/"+id+"/resume", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	f.clock.Advance(time.Second)
	assert.Empty(t, f.list(t).Toasts)
}

func TestPauseUnknownIsNoop(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodPost, "/toasts/nope/pause", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.New(metrics.WithRegistry(reg))

	clock := toasttest.NewClock(time.Time{})
	m := toast.New(toast.WithClock(clock))
	stop := collector.Observe(m, clock.Now)
	defer stop()

	srv := New(m, Config{Gatherer: reg})
	defer srv.Close()

	m.Enqueue("x", toast.WithType(toast.TypeWarning))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `toast_enqueued_total{type="warning"} 1`)
	assert.Contains(t, rec.Body.String(), "toast_active 1")
}

func TestMetricsDisabled(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCloseTearsDownManager(t *testing.T) {
	f := newFixture(t)
	f.create(t, CreateRequest{Message: "x"})

	f.srv.Close()

	assert.True(t, f.srv.Manager().Closed())
	assert.Equal(t, 0, f.clock.Pending())
}
