package server

import (
	"context"

	"eventaide/internal/models"
	"eventaide/internal/services/dialogue"
)

type ChatRequest struct {
	Message string           `json:"message"`
	History []models.Message `json:"history"`
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	RequestID string `json:"requestId"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// Responder answers one chat turn; *dialogue.Service implements it.
type Responder interface {
	Respond(ctx context.Context, message string, history []models.Message) dialogue.Reply
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

type Dependencies struct {
	Dialogue Responder
	Cache    Pinger // optional; /ready pings it when set
	Logger   Logger
}
