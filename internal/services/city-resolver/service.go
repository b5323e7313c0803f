// Package cityresolver corrects misspelled city names with an LLM served over
// an OpenAI-compatible API (Ollama by default).
package cityresolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	apperrors "eventaide/internal/common/errors"

	"github.com/sashabaranov/go-openai"
)

const serviceName = "city resolver"

var jsonObject = regexp.MustCompile(`\{.*\}`)

type Service struct {
	config *Config
	client *openai.Client
	cache  Cache
	logger Logger
	errors *apperrors.ErrorHandler
}

func NewService(cfg *Config, deps Dependencies) *Service {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if deps.HTTP != nil {
		clientCfg.HTTPClient = deps.HTTP
	} else {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Service{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
		cache:  deps.Cache,
		logger: deps.Logger,
		errors: apperrors.NewErrorHandler(deps.Logger),
	}
}

// Resolve returns the corrected city for text, or "" when it cannot be
// determined. Failures are logged, never returned.
func (s *Service) Resolve(ctx context.Context, text string) string {
	city, err := s.Correct(ctx, text)
	if apperrors.IsCode(err, apperrors.ErrCodeNoMatch) {
		s.logger.Info("city not recognized", map[string]interface{}{
			"reason": err.Error(),
			"input":  truncate(text, 80),
		})
		return ""
	}
	if err != nil {
		s.errors.Handle("resolve_city", err, true)
		return ""
	}
	return city
}

// Correct asks the model for the corrected city name. Errors carry
// UPSTREAM_UNAVAILABLE, UPSTREAM_TIMEOUT, MALFORMED_RESPONSE or NO_MATCH.
func (s *Service) Correct(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.NewNoMatchError(serviceName, "empty input")
	}

	key := ""
	if s.cache != nil {
		key = s.cache.Key("city", strings.ToLower(text))
		var cached string
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("city cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		} else if hit && cached != "" {
			return cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		if isTimeout(ctx, err) {
			return "", apperrors.NewUpstreamTimeoutError(serviceName, err)
		}
		return "", apperrors.NewUpstreamUnavailableError(serviceName, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewNoMatchError(serviceName, "no choices in response")
	}

	city, err := parseCorrection(resp.Choices[0].Message.Content)
	if err != nil {
		return "", err
	}

	s.logger.Debug("city resolved", map[string]interface{}{
		"input": text,
		"city":  city,
	})

	if s.cache != nil && s.config.CacheTTL > 0 {
		if err := s.cache.SetJSON(ctx, key, city, s.config.CacheTTL); err != nil {
			s.logger.Warn("city cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return city, nil
}

// parseCorrection reads corrected_city from the first {...} span of the reply.
// Models often answer with single-quoted pseudo-JSON, which is accepted too.
func parseCorrection(content string) (string, error) {
	raw := jsonObject.FindString(content)
	if raw == "" {
		return "", apperrors.NewNoMatchError(serviceName, fmt.Sprintf("no JSON object in reply %q", truncate(content, 80)))
	}

	var c correction
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		if err2 := json.Unmarshal([]byte(strings.ReplaceAll(raw, "'", `"`)), &c); err2 != nil {
			return "", apperrors.NewMalformedResponseError(serviceName, err)
		}
	}

	city := strings.TrimSpace(c.CorrectedCity)
	if city == "" {
		return "", apperrors.NewNoMatchError(serviceName, "corrected_city missing or empty")
	}
	return city, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
