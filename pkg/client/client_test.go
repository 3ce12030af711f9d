package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestSummary(t *testing.T) {
	var gotAuth, gotPath string
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"totalOrders":4,"totalClients":2,"totalServices":3,"totalInventory":17}}`))
	})

	c := NewClient(ts.URL+"/", "td_key")
	s, err := c.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer td_key", gotAuth)
	assert.Equal(t, "/api/v1/stats/summary", gotPath)
	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, 17, s.TotalInventory)
}

func TestOrdersByStatus(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"PENDING":1,"IN_PROGRESS":2,"COMPLETED":3,"CANCELLED":0}}`))
	})

	d, err := NewClient(ts.URL, "").OrdersByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.InProgress)
	assert.Equal(t, 6, d.Total())
}

func TestAPIError(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":{"code":"data_integrity","message":"unknown order status"}}`))
	})

	_, err := NewClient(ts.URL, "").OrdersByStatus(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "data_integrity", apiErr.Code)
}

func TestNonJSONError(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	err := NewClient(ts.URL, "").Health(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "bad gateway")
}

func TestReady(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"success":false,"data":{"status":"not_ready"},"error":{"code":"not_ready","message":"service not ready"}}`))
	})

	err := NewClient(ts.URL, "").Ready(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "not_ready", apiErr.Code)
}

func TestWithTimeout(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success":true,"data":{}}`))
	})

	c := NewClient(ts.URL, "", WithTimeout(20*time.Millisecond))
	_, err := c.TechnicianPerformance(context.Background())
	assert.Error(t, err)
}

func TestWithHTTPClient(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"months":["Jan"],"revenue":[1500],"estimated":true}}`))
	})

	custom := &http.Client{Timeout: time.Second}
	c := NewClient(ts.URL, "", WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)

	trend, err := c.MonthlyRevenue(context.Background())
	require.NoError(t, err)
	assert.True(t, trend.Estimated)
	assert.Equal(t, []float64{1500}, trend.Revenue)
}
