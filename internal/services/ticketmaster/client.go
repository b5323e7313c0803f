// Package ticketmaster queries the Ticketmaster Discovery API and normalizes
// its event records.
package ticketmaster

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	apperrors "eventaide/internal/common/errors"
	"eventaide/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "ticketmaster"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Dependencies struct {
	HTTP   HTTPDoer
	Cache  Cache // optional
	Logger Logger
}

// Client is a Discovery API client. It is safe for concurrent use.
type Client struct {
	config *Config
	http   HTTPDoer
	cache  Cache
	logger Logger
	tracer trace.Tracer
}

func NewClient(cfg *Config, deps Dependencies) *Client {
	httpClient := deps.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		config: cfg,
		http:   httpClient,
		cache:  deps.Cache,
		logger: deps.Logger,
		tracer: otel.Tracer("eventaide/ticketmaster"),
	}
}

// Search runs one query and returns normalized events in upstream order.
func (c *Client) Search(ctx context.Context, q Query) ([]models.Event, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	params := c.params(q)

	ctx, span := c.tracer.Start(ctx, "ticketmaster.search", trace.WithAttributes(
		attribute.String("city", q.City),
		attribute.String("classification", q.Classification),
	))
	defer span.End()

	cacheKey := ""
	if c.cache != nil {
		cacheKey = c.cache.Key("events", queryHash(params))
		var cached []models.Event
		hit, err := c.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			c.logger.Warn("event cache read failed", map[string]interface{}{
				"key":   cacheKey,
				"error": err.Error(),
			})
		} else if hit {
			span.SetAttributes(attribute.Bool("cache.hit", true), attribute.Int("events", len(cached)))
			return cached, nil
		}
	}

	events, err := c.fetch(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("events", len(events)))

	if c.cache != nil && c.config.CacheTTL > 0 {
		if err := c.cache.SetJSON(ctx, cacheKey, events, c.config.CacheTTL); err != nil {
			c.logger.Warn("event cache write failed", map[string]interface{}{
				"key":   cacheKey,
				"error": err.Error(),
			})
		}
	}
	return events, nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) ([]models.Event, error) {
	withKey := url.Values{}
	for k, v := range params {
		withKey[k] = v
	}
	withKey.Set("apikey", c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.endpoint()+"?"+withKey.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailableError(serviceName, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("querying ticketmaster", map[string]interface{}{
		"city":           params.Get("city"),
		"classification": params.Get("classificationName"),
		"keyword":        params.Get("keyword"),
	})

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, apperrors.NewUpstreamTimeoutError(serviceName, err)
		}
		return nil, apperrors.NewUpstreamUnavailableError(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewUpstreamUnavailableError(serviceName, fmt.Errorf("status %d", resp.StatusCode)).
			WithMetadata("statusCode", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if isTimeout(ctx, err) {
			return nil, apperrors.NewUpstreamTimeoutError(serviceName, err)
		}
		return nil, apperrors.NewMalformedResponseError(serviceName, err)
	}
	if payload.Embedded == nil {
		return []models.Event{}, nil
	}

	events, skipped := normalize(payload.Embedded.Events)
	if skipped > 0 {
		c.logger.Debug("skipped unusable events", map[string]interface{}{
			"skipped": skipped,
			"kept":    len(events),
		})
	}
	return events, nil
}

// params builds the query string without the API key so it can double as a cache key.
func (c *Client) params(q Query) url.Values {
	v := url.Values{}
	v.Set("city", q.City)
	v.Set("size", strconv.Itoa(c.config.PageSize))

	country := q.CountryCode
	if country == "" {
		country = c.config.CountryCode
	}
	v.Set("countryCode", country)

	if q.StateCode != "" {
		v.Set("stateCode", q.StateCode)
	}
	if q.Classification != "" {
		v.Set("classificationName", q.Classification)
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.StartDate != "" {
		v.Set("startDateTime", q.StartDate+"T00:00:00Z")
	}
	if q.EndDate != "" {
		v.Set("endDateTime", q.EndDate+"T23:59:59Z")
	}
	return v
}

func validateQuery(q Query) error {
	if strings.TrimSpace(q.City) == "" {
		return apperrors.NewInvalidArgumentError("city is required")
	}
	if q.StartDate != "" && !datePattern.MatchString(q.StartDate) {
		return apperrors.NewInvalidArgumentError("startDate must be YYYY-MM-DD")
	}
	if q.EndDate != "" && !datePattern.MatchString(q.EndDate) {
		return apperrors.NewInvalidArgumentError("endDate must be YYYY-MM-DD")
	}
	return nil
}

// queryHash is url.Values.Encode (sorted by key) hashed to keep cache keys short.
func queryHash(params url.Values) string {
	sum := sha256.Sum256([]byte(strings.ToLower(params.Encode())))
	return hex.EncodeToString(sum[:8])
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
