package dialogue

import (
	"context"
	"time"

	"eventaide/internal/models"
	eventaggregator "eventaide/internal/services/event-aggregator"
)

const (
	Welcome = "Hi! 👋 I'm EventAIde. **Which city** are you looking for events in? " +
		"Just type the city name (e.g. New York, Los Angeles)."
	InterestsPrompt = "Got it, **%s**! What are you interested in? " +
		"Pick one or more: **sports**, **music**, **movies**."
	EmptyMessageReply = "Please enter a city name."
	CityRetryReply    = "Could not understand the city name. Please try again."
	LoadErrorReply    = "Could not load events: %s"
	NoEventsReply     = "## Events in %s\n\n_No events found for your interests._"
)

// State is the dialogue step a message is interpreted in.
type State string

const (
	AwaitingCity      State = "awaiting_city"
	AwaitingInterests State = "awaiting_interests"
)

// Outcome labels how a turn ended, for logs and metrics.
type Outcome string

const (
	OutcomeEmpty      Outcome = "empty"
	OutcomePrompted   Outcome = "prompted"
	OutcomeRetry      Outcome = "retry"
	OutcomeEvents     Outcome = "events"
	OutcomeNoEvents   Outcome = "no_events"
	OutcomeLoadFailed Outcome = "load_failed"
)

// Reply is the controller's answer to one user message.
type Reply struct {
	Text      string
	State     State
	Outcome   Outcome
	City      string
	Interests []models.Interest
	Events    int
}

type CityResolver interface {
	Resolve(ctx context.Context, text string) string
}

type Aggregator interface {
	Aggregate(ctx context.Context, req eventaggregator.Request) ([]models.CompactEvent, error)
}

// TurnRecorder receives per-turn telemetry; *observability.Observability implements it.
type TurnRecorder interface {
	RecordTurn(ctx context.Context, step, outcome string, duration time.Duration)
}

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

type ServiceDependencies struct {
	Resolver   CityResolver
	Aggregator Aggregator
	Recorder   TurnRecorder // optional
	Logger     Logger
}
