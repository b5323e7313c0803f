package dialogue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "eventaide/internal/common/errors"
	"eventaide/internal/common/logger"
	"eventaide/internal/models"
	eventaggregator "eventaide/internal/services/event-aggregator"
	"eventaide/internal/services/ticketmaster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test doubles
// ==========================

type fakeResolver struct {
	mu      sync.Mutex
	answers map[string]string
	inputs  []string
}

func (r *fakeResolver) Resolve(_ context.Context, text string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, text)
	return r.answers[strings.ToLower(text)]
}

type fakeAggregator struct {
	events []models.CompactEvent
	err    error
	last   eventaggregator.Request
	calls  int
}

func (a *fakeAggregator) Aggregate(_ context.Context, req eventaggregator.Request) ([]models.CompactEvent, error) {
	a.calls++
	a.last = req
	return a.events, a.err
}

type recorder struct {
	steps []string
}

func (r *recorder) RecordTurn(_ context.Context, step, outcome string, _ time.Duration) {
	r.steps = append(r.steps, step+"/"+outcome)
}

func newTestService(t *testing.T, resolver CityResolver, agg Aggregator) *Service {
	return NewService(ServiceDependencies{
		Resolver:   resolver,
		Aggregator: agg,
		Logger:     logger.NewTestLogger(t),
	}, DefaultConfig())
}

func user(text string) models.Message      { return models.Message{Role: models.RoleUser, Content: text} }
func assistant(text string) models.Message { return models.Message{Role: models.RoleAssistant, Content: text} }

// ==========================
// City step
// ==========================

func TestRespond_CityStep(t *testing.T) {
	resolver := &fakeResolver{answers: map[string]string{"naw yorkk": "New York"}}
	agg := &fakeAggregator{}
	svc := newTestService(t, resolver, agg)

	reply := svc.Respond(context.Background(), "naw yorkk", []models.Message{assistant(Welcome)})

	assert.Equal(t, "Got it, **New York**! What are you interested in? Pick one or more: **sports**, **music**, **movies**.", reply.Text)
	assert.Equal(t, AwaitingCity, reply.State)
	assert.Equal(t, OutcomePrompted, reply.Outcome)
	assert.Zero(t, agg.calls)
}

func TestRespond_CityNotUnderstood(t *testing.T) {
	svc := newTestService(t, &fakeResolver{}, &fakeAggregator{})

	reply := svc.Respond(context.Background(), "qwzx", nil)
	assert.Equal(t, "Could not understand the city name. Please try again.", reply.Text)
	assert.Equal(t, OutcomeRetry, reply.Outcome)
}

func TestRespond_EmptyMessage(t *testing.T) {
	resolver := &fakeResolver{}
	svc := newTestService(t, resolver, &fakeAggregator{})

	for _, msg := range []string{"", "   ", "\n\t"} {
		reply := svc.Respond(context.Background(), msg, []models.Message{user("rolla")})
		assert.Equal(t, "Please enter a city name.", reply.Text)
		assert.Equal(t, OutcomeEmpty, reply.Outcome)
	}
	assert.Empty(t, resolver.inputs)
}

// ==========================
// Interests step
// ==========================

func TestRespond_InterestsStep(t *testing.T) {
	resolver := &fakeResolver{answers: map[string]string{"rolla": "Rolla"}}
	agg := &fakeAggregator{events: []models.CompactEvent{
		{Name: "Jazz Night", Date: "2025-03-15", Venue: models.Venue{Name: "Club"}},
	}}
	svc := newTestService(t, resolver, agg)

	history := []models.Message{assistant(Welcome), user("rolla"), assistant(fmt.Sprintf(InterestsPrompt, "Rolla"))}
	reply := svc.Respond(context.Background(), "just films", history)

	assert.Equal(t, "## Top 10 events in Rolla\n\n### 1. Jazz Night\n\n**Venue:** Club  \n**When:** Sat, Mar 15", reply.Text)
	assert.Equal(t, AwaitingInterests, reply.State)
	assert.Equal(t, OutcomeEvents, reply.Outcome)
	assert.Equal(t, 1, reply.Events)
	assert.Equal(t, []string{"rolla"}, resolver.inputs)
	assert.Equal(t, eventaggregator.Request{City: "Rolla", Interests: []models.Interest{models.InterestMovies}, MaxEvents: 10}, agg.last)
}

func TestRespond_InterestsStepFallsBackToRawCity(t *testing.T) {
	agg := &fakeAggregator{}
	svc := newTestService(t, &fakeResolver{}, agg)

	reply := svc.Respond(context.Background(), "music", []models.Message{user("  Smallville "), assistant("...")})

	assert.Equal(t, "Smallville", agg.last.City)
	assert.Equal(t, "## Events in Smallville\n\n_No events found for your interests._", reply.Text)
	assert.Equal(t, OutcomeNoEvents, reply.Outcome)
}

func TestRespond_LoadError(t *testing.T) {
	err := apperrors.NewUpstreamUnavailableError("ticketmaster", errors.New("status 401"))
	svc := newTestService(t, &fakeResolver{}, &fakeAggregator{err: err})

	reply := svc.Respond(context.Background(), "sports", []models.Message{user("Rolla")})
	assert.Equal(t, "Could not load events: ticketmaster unavailable: status 401", reply.Text)
	assert.Equal(t, OutcomeLoadFailed, reply.Outcome)
}

func TestRespond_LaterTurnsRepeatInterestsStep(t *testing.T) {
	resolver := &fakeResolver{answers: map[string]string{"rolla": "Rolla"}}
	agg := &fakeAggregator{}
	svc := newTestService(t, resolver, agg)

	history := []models.Message{
		user("rolla"), assistant("prompt"),
		user("music"), assistant("events"),
	}
	reply := svc.Respond(context.Background(), "sports", history)

	assert.Equal(t, AwaitingInterests, reply.State)
	assert.Equal(t, "Rolla", agg.last.City)
	assert.Equal(t, []models.Interest{models.InterestSports}, agg.last.Interests)
}

func TestRespond_RecordsTurns(t *testing.T) {
	rec := &recorder{}
	svc := NewService(ServiceDependencies{
		Resolver:   &fakeResolver{answers: map[string]string{"rolla": "Rolla"}},
		Aggregator: &fakeAggregator{},
		Recorder:   rec,
		Logger:     logger.NewTestLogger(t),
	}, DefaultConfig())

	svc.Respond(context.Background(), "rolla", nil)
	svc.Respond(context.Background(), "music", []models.Message{user("rolla")})
	assert.Equal(t, []string{"awaiting_city/prompted", "awaiting_interests/no_events"}, rec.steps)
}

// ==========================
// State derivation
// ==========================

func TestDerive(t *testing.T) {
	tests := []struct {
		name      string
		history   []models.Message
		wantState State
		wantCity  string
	}{
		{"empty", nil, AwaitingCity, ""},
		{"assistant only", []models.Message{assistant(Welcome)}, AwaitingCity, ""},
		{"one user message", []models.Message{assistant(Welcome), user("Rolla")}, AwaitingInterests, "Rolla"},
		{"blank user message ignored", []models.Message{user("   "), assistant(EmptyMessageReply)}, AwaitingCity, ""},
		{"rejected city ignored", []models.Message{user("qwzx"), assistant(CityRetryReply)}, AwaitingCity, ""},
		{
			"accepted after retry",
			[]models.Message{user("qwzx"), assistant(CityRetryReply), user("austin"), assistant("prompt"), user("music")},
			AwaitingInterests, "austin",
		},
		{"first city wins", []models.Message{user("Rolla"), assistant("p"), user("Austin")}, AwaitingInterests, "Rolla"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, city := Derive(tt.history)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantCity, city)
		})
	}
}

// ==========================
// End to end
// ==========================

func TestRespond_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("city") != "New York" {
			http.Error(w, "unexpected city", http.StatusBadRequest)
			return
		}
		segment := q.Get("classificationName")
		var events []string
		for i := 1; i <= 8; i++ {
			events = append(events, fmt.Sprintf(`{
				"name": "%s event %d",
				"dates": {"start": {"localDate": "2025-03-%02d", "localTime": "19:30:00"}},
				"classifications": [{"segment": {"name": "%s"}, "genre": {"name": "General"}}],
				"_embedded": {"venues": [{"name": "Venue %d", "city": {"name": "New York"}, "state": {"name": "New York"}}]}
			}`, segment, i, i+14, segment, i))
		}
		// One event shared between categories.
		events = append(events, `{"name": "Shared Gala", "_embedded": {"venues": [{"name": "MSG"}]}, "classifications": [{"segment": {"name": "Misc"}}]}`)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"_embedded": {"events": [%s]}}`, strings.Join(events, ","))
	}))
	defer server.Close()

	log := logger.NewTestLogger(t)
	tmCfg := ticketmaster.DefaultConfig()
	tmCfg.BaseURL = server.URL
	tmCfg.APIKey = "key"
	tm := ticketmaster.NewClient(tmCfg, ticketmaster.Dependencies{Logger: log})
	agg := eventaggregator.NewService(eventaggregator.ServiceDependencies{Source: tm, Logger: log}, eventaggregator.DefaultConfig())
	resolver := &fakeResolver{answers: map[string]string{"new york": "New York"}}
	svc := NewService(ServiceDependencies{Resolver: resolver, Aggregator: agg, Logger: log}, DefaultConfig())

	history := []models.Message{assistant(Welcome)}

	first := svc.Respond(context.Background(), "new york", history)
	require.Equal(t, OutcomePrompted, first.Outcome)
	assert.Contains(t, first.Text, "New York")

	history = append(history, user("new york"), assistant(first.Text))
	second := svc.Respond(context.Background(), "music and sports", history)
	require.Equal(t, OutcomeEvents, second.Outcome, second.Text)

	assert.True(t, strings.HasPrefix(second.Text, "## Top 10 events in New York\n\n### 1. Sports event 1\n"), second.Text)
	assert.Equal(t, 10, strings.Count(second.Text, "\n### "))
	assert.Equal(t, 1, strings.Count(second.Text, "Shared Gala"))
	assert.Contains(t, second.Text, "### 10. Music event 1\n")
	assert.Contains(t, second.Text, "**When:** Sat, Mar 15 at 19:30:00  ")
	assert.Equal(t, 9, strings.Count(second.Text, "\n---\n"))
}
