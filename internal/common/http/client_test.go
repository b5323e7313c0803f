package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventaide/internal/common/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do_RecordsStatus(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	c := NewClient("test-upstream", time.Second)
	before := testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues("test-upstream", "418"))

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "eventaide/1.0", gotUA)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues("test-upstream", "418")))
}

func TestClient_Do_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient("test-closed", time.Second)
	before := testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues("test-closed", "error"))

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	_, err = c.Do(req)

	assert.Error(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues("test-closed", "error")))
}

func TestClient_Do_KeepsCallerUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom/2.0")

	resp, err := NewClient("test-ua", time.Second).Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "custom/2.0", gotUA)
}
