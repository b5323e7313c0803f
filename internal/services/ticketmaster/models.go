package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Upstream classification names.
const (
	ClassificationSports = "Sports"
	ClassificationMusic  = "Music"
	ClassificationFilm   = "Film"

	undefinedSegment = "Undefined"
	unknownGroup     = "Unknown"
	defaultConcertKw = "concert"
)

// Filter narrows a search. Dates are YYYY-MM-DD and cover whole days.
type Filter struct {
	StateCode   string
	CountryCode string
	Keyword     string
	StartDate   string
	EndDate     string
}

// Query is one Discovery API search.
type Query struct {
	City           string
	Classification string
	Filter
}

// Logger is the subset of the application logger this package writes to.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// HTTPDoer sends upstream requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Cache stores normalized search results.
type Cache interface {
	Key(parts ...string) string
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ==========================
// Discovery API payloads
// ==========================

type apiResponse struct {
	Embedded *struct {
		Events []json.RawMessage `json:"events"`
	} `json:"_embedded"`
}

type apiEvent struct {
	Name  string `json:"name"`
	Dates struct {
		Start struct {
			LocalDate string    `json:"localDate"`
			LocalTime localTime `json:"localTime"`
		} `json:"start"`
	} `json:"dates"`
	Classifications []apiClassification `json:"classifications"`
	Embedded        struct {
		Venues []apiVenue `json:"venues"`
	} `json:"_embedded"`
}

type apiVenue struct {
	Name    string `json:"name"`
	Address struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	City  namedValue `json:"city"`
	State namedValue `json:"state"`
}

type apiClassification struct {
	Segment  *apiNamed `json:"segment"`
	Genre    *apiNamed `json:"genre"`
	SubGenre *apiNamed `json:"subGenre"`
}

type apiNamed struct {
	Name string `json:"name"`
}

// localTime is either "19:30:00" or {"hourOfDay":19,"minuteOfHour":30}.
type localTime string

func (t *localTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = localTime(s)
		return nil
	}

	var parts struct {
		HourOfDay    int `json:"hourOfDay"`
		MinuteOfHour int `json:"minuteOfHour"`
	}
	if err := json.Unmarshal(data, &parts); err != nil {
		*t = ""
		return nil
	}
	if parts.HourOfDay == 0 && parts.MinuteOfHour == 0 {
		*t = ""
		return nil
	}
	*t = localTime(fmt.Sprintf("%02d:%02d:00", parts.HourOfDay, parts.MinuteOfHour))
	return nil
}

// namedValue is either a bare string or an object with a "name" field.
type namedValue string

func (v *namedValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = namedValue(s)
		return nil
	}

	var obj apiNamed
	if err := json.Unmarshal(data, &obj); err != nil {
		*v = ""
		return nil
	}
	*v = namedValue(obj.Name)
	return nil
}
