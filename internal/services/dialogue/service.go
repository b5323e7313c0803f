// Package dialogue implements the two-step chat: the first user message names a
// city, every later message lists interests and gets an events page back.
// No session is kept; the step is derived from the history on every turn.
package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventaide/internal/common/metrics"
	"eventaide/internal/interests"
	"eventaide/internal/models"
	"eventaide/internal/render"
	eventaggregator "eventaide/internal/services/event-aggregator"
)

type Service struct {
	config     *Config
	resolver   CityResolver
	aggregator Aggregator
	recorder   TurnRecorder
	logger     Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:     config,
		resolver:   deps.Resolver,
		aggregator: deps.Aggregator,
		recorder:   deps.Recorder,
		logger:     deps.Logger,
	}
}

// Respond answers message given the prior history (oldest first, excluding message).
func (s *Service) Respond(ctx context.Context, message string, history []models.Message) Reply {
	start := time.Now()
	if s.config.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.TurnTimeout)
		defer cancel()
	}

	reply := s.respond(ctx, strings.TrimSpace(message), history)

	metrics.DialogueTurns.WithLabelValues(string(reply.State), string(reply.Outcome)).Inc()
	if s.recorder != nil {
		s.recorder.RecordTurn(ctx, string(reply.State), string(reply.Outcome), time.Since(start))
	}
	s.logger.Info("dialogue turn", map[string]interface{}{
		"state":      reply.State,
		"outcome":    reply.Outcome,
		"city":       reply.City,
		"events":     reply.Events,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return reply
}

func (s *Service) respond(ctx context.Context, text string, history []models.Message) Reply {
	state, firstCity := Derive(history)
	if text == "" {
		return Reply{Text: EmptyMessageReply, State: state, Outcome: OutcomeEmpty}
	}

	if state == AwaitingCity {
		city := s.resolver.Resolve(ctx, text)
		if city == "" {
			return Reply{Text: CityRetryReply, State: state, Outcome: OutcomeRetry}
		}
		return Reply{Text: fmt.Sprintf(InterestsPrompt, city), State: state, Outcome: OutcomePrompted, City: city}
	}

	city := s.resolver.Resolve(ctx, firstCity)
	if city == "" {
		city = firstCity
	}
	wanted := interests.Parse(text)

	reply := Reply{State: state, City: city, Interests: wanted}
	events, err := s.aggregator.Aggregate(ctx, eventaggregator.Request{
		City:      city,
		StateCode: s.config.StateCode,
		Interests: wanted,
		MaxEvents: s.config.TopN,
	})
	if err != nil {
		reply.Text = fmt.Sprintf(LoadErrorReply, err)
		reply.Outcome = OutcomeLoadFailed
		return reply
	}
	if len(events) == 0 {
		reply.Text = fmt.Sprintf(NoEventsReply, city)
		reply.Outcome = OutcomeNoEvents
		return reply
	}

	reply.Text = render.Document(city, s.config.TopN, events)
	reply.Outcome = OutcomeEvents
	reply.Events = len(events)
	return reply
}

// Derive returns the state implied by history and, once past the city step,
// the text of the first accepted city message. A user message counts only when
// it has non-blank text and the assistant did not answer it with a retry prompt.
func Derive(history []models.Message) (State, string) {
	for i, m := range history {
		if m.Role != models.RoleUser {
			continue
		}
		text := strings.TrimSpace(m.Content)
		if text == "" || rejected(history[i+1:]) {
			continue
		}
		return AwaitingInterests, text
	}
	return AwaitingCity, ""
}

// rejected reports whether the next assistant message is a retry prompt.
func rejected(rest []models.Message) bool {
	for _, m := range rest {
		switch m.Role {
		case models.RoleAssistant:
			reply := strings.TrimSpace(m.Content)
			return reply == CityRetryReply || reply == EmptyMessageReply
		case models.RoleUser:
			return false
		}
	}
	return false
}
