package cityresolver

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "Correct the following city name for spelling errors and output only the most likely city name:\n" +
	"For example: input :  naw yorkk, output: new york\n" +
	"Do NOT explain your answer. Do NOT show any thoughts. Output ONLY the corrected city name.\n" +
	"Your response should be in JSON format like {'corrected_city':city}"

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Cache stores corrected city names.
type Cache interface {
	Key(parts ...string) string
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type Dependencies struct {
	HTTP   openai.HTTPDoer // optional, defaults to an http.Client with the configured timeout
	Cache  Cache           // optional
	Logger Logger
}

type correction struct {
	CorrectedCity string `json:"corrected_city"`
}
