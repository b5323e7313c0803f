// internal/common/http/client.go
package http

import (
	"net/http"
	"strconv"
	"time"

	"eventaide/internal/common/metrics"
)

// Client is an http.Client that labels its requests with the upstream service
// name for the eventaide_upstream_* metrics.
type Client struct {
	httpClient *http.Client
	service    string
	userAgent  string
}

func NewClient(service string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		service:   service,
		userAgent: "eventaide/1.0",
	}
}

// Do sends req and records status and latency. Transport errors are counted as status "error".
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamDuration.WithLabelValues(c.service).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(c.service, "error").Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues(c.service, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}
