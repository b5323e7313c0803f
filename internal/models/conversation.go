package models

import (
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one prior chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UnmarshalJSON accepts content either as a plain string or as a list of
// content blocks ({"type":"text","text":"..."} or bare strings), joining the
// text parts with a space.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role    Role            `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Role = raw.Role
	m.Content = contentText(raw.Content)
	return nil
}

func contentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var blocks []json.RawMessage
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		var text string
		if err := json.Unmarshal(b, &text); err == nil {
			parts = append(parts, text)
			continue
		}
		var block struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(b, &block); err == nil && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Interest is a user-facing event category.
type Interest string

const (
	InterestSports Interest = "sports"
	InterestMusic  Interest = "music"
	InterestMovies Interest = "movies"
)

// AllInterests lists interests in priority order.
var AllInterests = []Interest{InterestSports, InterestMusic, InterestMovies}
