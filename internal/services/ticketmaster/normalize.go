package ticketmaster

import (
	"encoding/json"

	"eventaide/internal/models"
)

const (
	unknownVenue = "Unknown Venue"
	notAvailable = "N/A"
	otherSegment = "Other"
	generalGenre = "General"
)

// normalize converts raw event payloads into Events. Records without a name or
// a venue, and records that do not decode, are skipped and counted.
func normalize(raw []json.RawMessage) ([]models.Event, int) {
	events := make([]models.Event, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		var ev apiEvent
		if err := json.Unmarshal(r, &ev); err != nil {
			skipped++
			continue
		}
		out, ok := normalizeEvent(ev)
		if !ok {
			skipped++
			continue
		}
		events = append(events, out)
	}
	return events, skipped
}

func normalizeEvent(ev apiEvent) (models.Event, bool) {
	if ev.Name == "" || len(ev.Embedded.Venues) == 0 {
		return models.Event{}, false
	}

	v := ev.Embedded.Venues[0]
	venueName := v.Name
	if venueName == "" {
		venueName = unknownVenue
	}

	return models.Event{
		Name: ev.Name,
		Date: ev.Dates.Start.LocalDate,
		Time: string(ev.Dates.Start.LocalTime),
		Venue: models.Venue{
			Name:    venueName,
			Address: v.Address.Line1,
			City:    string(v.City),
			State:   string(v.State),
		},
		Classification: classify(ev.Classifications),
	}, true
}

func classify(cs []apiClassification) models.Classification {
	if len(cs) == 0 {
		return models.Classification{Segment: otherSegment, Genre: generalGenre, Subgenre: notAvailable}
	}
	c := cs[0]
	return models.Classification{
		Segment:  nameOr(c.Segment),
		Genre:    nameOr(c.Genre),
		Subgenre: nameOr(c.SubGenre),
	}
}

func nameOr(n *apiNamed) string {
	if n == nil || n.Name == "" {
		return notAvailable
	}
	return n.Name
}
