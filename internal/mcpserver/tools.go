package mcpserver

import (
	"context"
	"encoding/json"

	"eventaide/internal/common/validation"
	"eventaide/internal/models"
)

const allEventsSchema = `{
	"type": "object",
	"properties": {
		"city": {"type": "string", "description": "City name (required)."},
		"stateCode": {"type": "string", "description": "US state code, e.g. MO."},
		"format": {"type": "string", "enum": ["json", "text"], "default": "json"}
	}
}`

const filteredSchema = `{
	"type": "object",
	"properties": {
		"city": {"type": "string", "description": "City name (defaults via env)."},
		"stateCode": {"type": "string", "description": "US state code, e.g. MO."},
		"countryCode": {"type": "string", "default": "US"},
		"startDate": {"type": "string", "description": "YYYY-MM-DD", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"endDate": {"type": "string", "description": "YYYY-MM-DD", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"keyword": {"type": "string"},
		"format": {"type": "string", "enum": ["json", "text"], "default": "json"}
	}
}`

type fetchFunc func(ctx context.Context, src EventSource, args toolArgs) (*models.SegmentedEvents, error)

type toolSpec struct {
	name        string
	description string
	rawSchema   string
	schema      *validation.Schema
	fetch       fetchFunc
}

func toolSpecs() []toolSpec {
	all := validation.MustCompile(allEventsSchema)
	filtered := validation.MustCompile(filteredSchema)

	return []toolSpec{
		{
			name:        ToolAllEvents,
			description: "Get all events in a city, grouped by segment and genre. Use this for a full event list.",
			rawSchema:   allEventsSchema,
			schema:      all,
			fetch: func(ctx context.Context, src EventSource, a toolArgs) (*models.SegmentedEvents, error) {
				return src.GetAllEvents(ctx, a.City, a.StateCode)
			},
		},
		{
			name:        ToolMusicEvents,
			description: "Find music events in a city/date range (classificationName=Music).",
			rawSchema:   filteredSchema,
			schema:      filtered,
			fetch: func(ctx context.Context, src EventSource, a toolArgs) (*models.SegmentedEvents, error) {
				return src.GetMusicEvents(ctx, a.City, a.filter())
			},
		},
		{
			name:        ToolSportsEvents,
			description: "Find sports events in a city/date range (classificationName=Sports).",
			rawSchema:   filteredSchema,
			schema:      filtered,
			fetch: func(ctx context.Context, src EventSource, a toolArgs) (*models.SegmentedEvents, error) {
				return src.GetSportsEvents(ctx, a.City, a.filter())
			},
		},
		{
			name:        ToolConcerts,
			description: "Find concerts (music) in a city/date range; defaults keyword to 'concert'.",
			rawSchema:   filteredSchema,
			schema:      filtered,
			fetch: func(ctx context.Context, src EventSource, a toolArgs) (*models.SegmentedEvents, error) {
				return src.GetConcerts(ctx, a.City, a.filter())
			},
		},
	}
}

func (t toolSpec) inputSchema() json.RawMessage {
	return json.RawMessage(t.rawSchema)
}
