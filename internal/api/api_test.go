package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/techdesk/internal/backends"
	"github.com/terra-clan/techdesk/internal/config"
	"github.com/terra-clan/techdesk/internal/events"
	"github.com/terra-clan/techdesk/internal/models"
	"github.com/terra-clan/techdesk/internal/records"
	"github.com/terra-clan/techdesk/internal/stats"
	"github.com/terra-clan/techdesk/internal/storage"
)

type testEnv struct {
	server   *Server
	repo     *storage.MemoryRepository
	records  *records.Manager
	bus      *events.LocalBus
	registry *backends.Registry
}

func newTestEnv(t *testing.T, auth bool) *testEnv {
	t.Helper()

	repo := storage.NewMemoryRepository()
	bus := events.NewLocalBus()
	t.Cleanup(func() { bus.Close() })

	registry := backends.NewRegistry()
	registry.Register("store", backends.NewStoreBackend("memory", repo))

	manager := records.NewManager(repo, bus)
	srv := NewServer(
		config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		config.AuthConfig{Enabled: auth},
		Deps{
			Records:  manager,
			Stats:    stats.NewService(repo),
			Repo:     repo,
			Backends: registry,
			Bus:      bus,
		},
	)

	return &testEnv{server: srv, repo: repo, records: manager, bus: bus, registry: registry}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)

	rec, body := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Contains(t, string(body.Data), "healthy")
}

type downBackend struct{ backends.BaseBackend }

func (downBackend) HealthCheck(ctx context.Context) error { return errors.New("connection refused") }
func (downBackend) Close() error                          { return nil }

func TestReady(t *testing.T) {
	env := newTestEnv(t, false)

	rec, body := env.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body.Data), `"store":"ok"`)

	env.registry.Register("bus", &downBackend{})
	rec, body = env.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "not_ready", body.Error.Code)
	assert.Contains(t, string(body.Data), "connection refused")
}

func TestClientLifecycle(t *testing.T) {
	env := newTestEnv(t, false)
	client := map[string]string{"name": "Ana Torres", "dni": "12345678", "email": "ana@example.com"}

	rec, body := env.do(t, http.MethodPost, "/api/v1/clients", client)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Client
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, models.ClientActive, created.Status)

	rec, body = env.do(t, http.MethodPost, "/api/v1/clients", client)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", body.Error.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/clients/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodPut, "/api/v1/clients/1",
		map[string]string{"name": "Ana T.", "dni": "12345678", "email": "ana@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(body.Data), "Ana T.")

	rec, body = env.do(t, http.MethodGet, "/api/v1/clients", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body.Data), `"total":1`)

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/clients/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodGet, "/api/v1/clients/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestRequestErrors(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"bad id", http.MethodGet, "/api/v1/orders/abc", nil, http.StatusBadRequest, "invalid_request"},
		{"zero id", http.MethodGet, "/api/v1/inventory/0", nil, http.StatusBadRequest, "invalid_request"},
		{"bad client filter", http.MethodGet, "/api/v1/orders?client_id=x", nil, http.StatusBadRequest, "invalid_request"},
		{"unknown status filter", http.MethodGet, "/api/v1/orders?status=lost", nil, http.StatusBadRequest, "validation_error"},
		{"missing fields", http.MethodPost, "/api/v1/clients", map[string]string{}, http.StatusBadRequest, "validation_error"},
		{"negative quantity", http.MethodPost, "/api/v1/inventory", map[string]interface{}{"component": "SSD", "quantity": -1}, http.StatusBadRequest, "validation_error"},
		{"missing service", http.MethodDelete, "/api/v1/services/9", nil, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestInvalidJSON(t *testing.T) {
	env := newTestEnv(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_request")
}

func TestValidationFields(t *testing.T) {
	env := newTestEnv(t, false)

	_, body := env.do(t, http.MethodPost, "/api/v1/clients", map[string]string{"name": "Ana", "dni": "1", "email": "nope"})
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Fields, "email")
}

func TestOrdersAndServiceFilters(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	c, err := env.records.CreateClient(ctx, &models.Client{Name: "Ana", DNI: "1", Email: "a@example.com"})
	require.NoError(t, err)

	rec, body := env.do(t, http.MethodPost, "/api/v1/orders", map[string]interface{}{"client_id": c.ID, "summary": "Broken hinge"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var o models.Order
	require.NoError(t, json.Unmarshal(body.Data, &o))
	assert.True(t, strings.HasPrefix(o.OrderNumber, "ORD-"))

	_, err = env.records.CreateOrder(ctx, &models.Order{Status: models.OrderCompleted})
	require.NoError(t, err)

	_, body = env.do(t, http.MethodGet, "/api/v1/orders?status=completed", nil)
	assert.Contains(t, string(body.Data), `"total":1`)

	_, body = env.do(t, http.MethodGet, "/api/v1/orders?client_id=1", nil)
	assert.Contains(t, string(body.Data), "Broken hinge")

	_, err = env.records.CreateService(ctx, &models.Service{Group: "Repair", Name: "Hinge", Price: 40})
	require.NoError(t, err)
	_, err = env.records.CreateService(ctx, &models.Service{Group: "Maintenance", Name: "Cleaning", Price: 20, Status: models.ServiceInactive})
	require.NoError(t, err)

	_, body = env.do(t, http.MethodGet, "/api/v1/services?group=maintenance", nil)
	assert.Contains(t, string(body.Data), "Cleaning")
	assert.NotContains(t, string(body.Data), "Hinge")

	_, body = env.do(t, http.MethodGet, "/api/v1/services/active", nil)
	assert.Contains(t, string(body.Data), "Hinge")
	assert.NotContains(t, string(body.Data), "Cleaning")
}

func TestStatsEndpoints(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.records.CreateOrder(ctx, &models.Order{Status: models.OrderCompleted})
	require.NoError(t, err)
	_, err = env.records.CreateInventoryItem(ctx, &models.InventoryItem{Component: "Gaming laptop", Quantity: 3})
	require.NoError(t, err)

	paths := []string{
		"summary", "orders-by-status", "monthly-revenue", "service-trend",
		"client-segments", "inventory-by-category", "technician-performance",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			rec, body := env.do(t, http.MethodGet, "/api/v1/stats/"+p, nil)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.True(t, body.Success)
		})
	}

	_, body := env.do(t, http.MethodGet, "/api/v1/stats/orders-by-status", nil)
	assert.JSONEq(t, `{"PENDING":0,"IN_PROGRESS":0,"COMPLETED":1,"CANCELLED":0}`, string(body.Data))

	_, body = env.do(t, http.MethodGet, "/api/v1/stats/summary", nil)
	assert.JSONEq(t, `{"totalOrders":1,"totalClients":0,"totalServices":0,"totalInventory":3}`, string(body.Data))
}

func TestStatsDataIntegrity(t *testing.T) {
	env := newTestEnv(t, false)

	// Bypass the manager so the bad status reaches the store
	require.NoError(t, env.repo.CreateOrder(context.Background(), &models.Order{OrderNumber: "ORD-X", Status: "ON_HOLD"}))

	rec, body := env.do(t, http.MethodGet, "/api/v1/stats/orders-by-status", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "data_integrity", body.Error.Code)
}

func TestAuth(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	require.NoError(t, env.repo.CreateApiClient(ctx, &models.ApiClient{
		Name: "dashboard", ApiKey: "td_dashboard_key", IsActive: true, Permissions: []string{"stats:read"},
	}))
	require.NoError(t, env.repo.CreateApiClient(ctx, &models.ApiClient{
		Name: "retired", ApiKey: "td_retired_key", IsActive: false, Permissions: []string{"*"},
	}))

	tests := []struct {
		name    string
		path    string
		headers []string
		status  int
	}{
		{"no key", "/api/v1/stats/summary", nil, http.StatusUnauthorized},
		{"unknown key", "/api/v1/stats/summary", []string{"X-API-Key", "td_nope"}, http.StatusUnauthorized},
		{"inactive key", "/api/v1/stats/summary", []string{"X-API-Key", "td_retired_key"}, http.StatusUnauthorized},
		{"bearer key", "/api/v1/stats/summary", []string{"Authorization", "Bearer td_dashboard_key"}, http.StatusOK},
		{"query key", "/api/v1/stats/summary?api_key=td_dashboard_key", nil, http.StatusOK},
		{"missing permission", "/api/v1/clients", []string{"X-API-Key", "td_dashboard_key"}, http.StatusForbidden},
		{"health stays public", "/health", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := env.do(t, http.MethodGet, tt.path, nil, tt.headers...)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	h := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "rate_limited")
}

func TestLiveStats(t *testing.T) {
	env := newTestEnv(t, false)
	ts := httptest.NewServer(env.server.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/stats/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() LiveMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg struct {
			Type  string          `json:"type"`
			Data  models.Snapshot `json:"data"`
			Event *events.Event   `json:"event"`
		}
		require.NoError(t, json.Unmarshal(data, &msg))
		return LiveMessage{Type: msg.Type, Data: msg.Data, Event: msg.Event}
	}

	initial := read()
	assert.Equal(t, "snapshot", initial.Type)
	assert.Nil(t, initial.Event)
	assert.Equal(t, 0, initial.Data.(models.Snapshot).Summary.TotalOrders)

	_, err = env.records.CreateOrder(context.Background(), &models.Order{Summary: "Fan noise"})
	require.NoError(t, err)

	update := read()
	assert.Equal(t, "snapshot", update.Type)
	require.NotNil(t, update.Event)
	assert.Equal(t, "order.created", update.Event.Kind)
	snap := update.Data.(models.Snapshot)
	assert.Equal(t, 1, snap.Summary.TotalOrders)
	assert.Equal(t, 1, snap.ByStatus.Pending)
}

func TestCallerContext(t *testing.T) {
	assert.Nil(t, CallerFromContext(context.Background()))

	ctx, slot := withCallerSlot(context.Background())
	caller := &models.ApiClient{Name: "dashboard"}
	ctx = withCaller(ctx, caller)

	assert.Same(t, caller, CallerFromContext(ctx))
	assert.Equal(t, "dashboard", slot.name)
}
