package eventaggregator

import (
	"context"

	"eventaide/internal/models"
	"eventaide/internal/services/ticketmaster"
)

// EventSource is the upstream catalog, implemented by *ticketmaster.Client.
type EventSource interface {
	GetCategory(ctx context.Context, classification, city string, f ticketmaster.Filter) (*models.SegmentedEvents, error)
	GetEvents(ctx context.Context, city string, f ticketmaster.Filter) ([]models.Event, error)
}

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

type Request struct {
	City      string
	StateCode string // overrides Config.StateCode when set
	Interests []models.Interest
	MaxEvents int // overrides Config.MaxEvents when positive
}

type ServiceDependencies struct {
	Source EventSource
	Logger Logger
}

// classifications maps each interest to its upstream classification, in fetch priority order.
var classifications = []struct {
	interest       models.Interest
	classification string
}{
	{models.InterestSports, ticketmaster.ClassificationSports},
	{models.InterestMusic, ticketmaster.ClassificationMusic},
	{models.InterestMovies, ticketmaster.ClassificationFilm},
}
