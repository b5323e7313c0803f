package mcpserver

import (
	"context"

	"eventaide/internal/models"
	"eventaide/internal/services/ticketmaster"
)

const (
	ToolAllEvents    = "get_all_events"
	ToolMusicEvents  = "get_music_events"
	ToolSportsEvents = "get_sports_events"
	ToolConcerts     = "get_concerts"

	formatJSON = "json"
	formatText = "text"
)

// EventSource is implemented by *ticketmaster.Client.
type EventSource interface {
	GetAllEvents(ctx context.Context, city, stateCode string) (*models.SegmentedEvents, error)
	GetMusicEvents(ctx context.Context, city string, f ticketmaster.Filter) (*models.SegmentedEvents, error)
	GetSportsEvents(ctx context.Context, city string, f ticketmaster.Filter) (*models.SegmentedEvents, error)
	GetConcerts(ctx context.Context, city string, f ticketmaster.Filter) (*models.SegmentedEvents, error)
}

// ToolRecorder receives per-call telemetry; *observability.Observability implements it.
type ToolRecorder interface {
	RecordToolCall(ctx context.Context, tool string, isError bool)
}

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

type Config struct {
	Name             string
	Version          string
	DefaultCity      string
	DefaultStateCode string
}

type Dependencies struct {
	Source   EventSource
	Recorder ToolRecorder // optional
	Logger   Logger
}

// toolArgs are the normalized arguments shared by every tool.
type toolArgs struct {
	City        string
	StateCode   string
	CountryCode string
	Keyword     string
	StartDate   string
	EndDate     string
	Format      string
}

func (a toolArgs) filter() ticketmaster.Filter {
	return ticketmaster.Filter{
		StateCode:   a.StateCode,
		CountryCode: a.CountryCode,
		Keyword:     a.Keyword,
		StartDate:   a.StartDate,
		EndDate:     a.EndDate,
	}
}
