// Package eventaggregator merges per-interest category fetches into one
// deduplicated, capped event list.
package eventaggregator

import (
	"context"

	apperrors "eventaide/internal/common/errors"
	"eventaide/internal/common/metrics"
	"eventaide/internal/models"
	"eventaide/internal/services/ticketmaster"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Service struct {
	config *Config
	source EventSource
	logger Logger
	errors *apperrors.ErrorHandler
	tracer trace.Tracer
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		source: deps.Source,
		logger: deps.Logger,
		errors: apperrors.NewErrorHandler(deps.Logger),
		tracer: otel.Tracer("eventaide/event-aggregator"),
	}
}

// Aggregate returns up to N events for the requested interests, in category
// priority order (sports, music, movies) and upstream order within a category.
// Names are deduplicated across categories, first occurrence wins.
//
// An empty interest set (or one with no known interest) falls back to a single
// unfiltered fetch truncated to N. A failing category is logged and skipped; an
// error is returned only when every attempted category failed, or when the
// unfiltered fetch failed.
func (s *Service) Aggregate(ctx context.Context, req Request) ([]models.CompactEvent, error) {
	limit := s.config.MaxEvents
	if req.MaxEvents > 0 {
		limit = req.MaxEvents
	}
	filter := ticketmaster.Filter{StateCode: s.config.StateCode}
	if req.StateCode != "" {
		filter.StateCode = req.StateCode
	}

	ctx, span := s.tracer.Start(ctx, "aggregate", trace.WithAttributes(
		attribute.String("city", req.City),
		attribute.Int("limit", limit),
		attribute.Int("interests", len(req.Interests)),
	))
	defer span.End()

	var (
		events []models.CompactEvent
		err    error
	)
	if !anyKnown(req.Interests) {
		events, err = s.unfiltered(ctx, req.City, filter, limit)
	} else {
		events, err = s.byCategory(ctx, req.City, filter, req.Interests, limit)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("events", len(events)))
	metrics.EventsReturned.Observe(float64(len(events)))
	s.logger.Info("events aggregated", map[string]interface{}{
		"city":   req.City,
		"events": len(events),
		"limit":  limit,
	})
	return events, nil
}

func (s *Service) unfiltered(ctx context.Context, city string, filter ticketmaster.Filter, limit int) ([]models.CompactEvent, error) {
	all, err := s.source.GetEvents(ctx, city, filter)
	if err != nil {
		return nil, s.errors.Handle("fetch_all_events", err, false)
	}
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]models.CompactEvent, len(all))
	for i, ev := range all {
		out[i] = ev.Compact()
	}
	return out, nil
}

func (s *Service) byCategory(ctx context.Context, city string, filter ticketmaster.Filter, interests []models.Interest, limit int) ([]models.CompactEvent, error) {
	wanted := make(map[models.Interest]bool, len(interests))
	for _, in := range interests {
		wanted[in] = true
	}

	seen := make(map[string]bool, limit)
	flat := make([]models.CompactEvent, 0, limit)
	var failures []error
	attempted := 0

	for _, c := range classifications {
		if !wanted[c.interest] {
			continue
		}
		if len(flat) >= limit {
			break
		}

		attempted++
		grouped, err := s.source.GetCategory(ctx, c.classification, city, filter)
		if err != nil {
			stdErr := s.errors.Handle("fetch_category/"+c.classification, err, true)
			metrics.CategoryFailures.WithLabelValues(c.classification, string(stdErr.Code)).Inc()
			failures = append(failures, err)
			continue
		}

		for _, ev := range grouped.Flatten() {
			if len(flat) >= limit {
				break
			}
			if ev.Name == "" || seen[ev.Name] {
				continue
			}
			seen[ev.Name] = true
			flat = append(flat, ev)
		}
	}

	if attempted > 0 && len(failures) == attempted {
		return nil, apperrors.NewAllCategoriesFailedError(failures)
	}
	return flat, nil
}

func anyKnown(interests []models.Interest) bool {
	for _, in := range interests {
		for _, c := range classifications {
			if c.interest == in {
				return true
			}
		}
	}
	return false
}
