package models

import (
	"bytes"
	"encoding/json"
)

// Venue is the first venue attached to an upstream event.
type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

// Classification is the segment/genre/subgenre triple of an upstream event.
type Classification struct {
	Segment  string `json:"segment"`
	Genre    string `json:"genre"`
	Subgenre string `json:"subgenre"`
}

// Event is one normalized upstream record. Date is YYYY-MM-DD and Time HH:MM:SS;
// either may be empty.
type Event struct {
	Name           string         `json:"name"`
	Date           string         `json:"date"`
	Time           string         `json:"time"`
	Venue          Venue          `json:"venue"`
	Classification Classification `json:"classification"`
}

// CompactEvent is an Event inside a segment/genre group: the classification is
// implied by the group, only the subgenre is kept.
type CompactEvent struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Venue    Venue  `json:"venue"`
	Subgenre string `json:"subgenre,omitempty"`
}

func (e Event) Compact() CompactEvent {
	return CompactEvent{
		Name:     e.Name,
		Date:     e.Date,
		Time:     e.Time,
		Venue:    e.Venue,
		Subgenre: e.Classification.Subgenre,
	}
}

// GenreGroup holds the events of one genre in upstream order.
type GenreGroup struct {
	Genre  string
	Events []CompactEvent
}

// SegmentGroup holds the genres of one segment in first-appearance order.
type SegmentGroup struct {
	Segment string
	Genres  []GenreGroup
}

// SegmentedEvents is an ordered segment -> genre -> events mapping.
// The zero value is ready to use.
type SegmentedEvents struct {
	Segments []SegmentGroup

	segmentIdx map[string]int
	genreIdx   []map[string]int
}

// Add appends ev under segment/genre, creating either group on first use.
func (s *SegmentedEvents) Add(segment, genre string, ev CompactEvent) {
	if s.segmentIdx == nil {
		s.reindex()
	}
	si, ok := s.segmentIdx[segment]
	if !ok {
		si = len(s.Segments)
		s.Segments = append(s.Segments, SegmentGroup{Segment: segment})
		s.segmentIdx[segment] = si
		s.genreIdx = append(s.genreIdx, make(map[string]int))
	}

	seg := &s.Segments[si]
	gi, ok := s.genreIdx[si][genre]
	if !ok {
		gi = len(seg.Genres)
		seg.Genres = append(seg.Genres, GenreGroup{Genre: genre})
		s.genreIdx[si][genre] = gi
	}
	seg.Genres[gi].Events = append(seg.Genres[gi].Events, ev)
}

// Remove drops a whole segment. It reports whether the segment existed.
func (s *SegmentedEvents) Remove(segment string) bool {
	for i, seg := range s.Segments {
		if seg.Segment == segment {
			s.Segments = append(s.Segments[:i], s.Segments[i+1:]...)
			s.reindex()
			return true
		}
	}
	return false
}

// Has reports whether segment is present.
func (s *SegmentedEvents) Has(segment string) bool {
	for _, seg := range s.Segments {
		if seg.Segment == segment {
			return true
		}
	}
	return false
}

// Len is the total number of events across all groups.
func (s *SegmentedEvents) Len() int {
	n := 0
	for _, seg := range s.Segments {
		for _, g := range seg.Genres {
			n += len(g.Events)
		}
	}
	return n
}

// Flatten returns every event in segment, genre, upstream order.
func (s *SegmentedEvents) Flatten() []CompactEvent {
	out := make([]CompactEvent, 0, s.Len())
	for _, seg := range s.Segments {
		for _, g := range seg.Genres {
			out = append(out, g.Events...)
		}
	}
	return out
}

func (s *SegmentedEvents) reindex() {
	s.segmentIdx = make(map[string]int, len(s.Segments))
	s.genreIdx = make([]map[string]int, len(s.Segments))
	for i, seg := range s.Segments {
		s.segmentIdx[seg.Segment] = i
		s.genreIdx[i] = make(map[string]int, len(seg.Genres))
		for j, g := range seg.Genres {
			s.genreIdx[i][g.Genre] = j
		}
	}
}

// MarshalJSON writes {"Segment": {"Genre": [events...]}} keeping group order.
func (s *SegmentedEvents) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, seg := range s.Segments {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, seg.Segment); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, g := range seg.Genres {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, g.Genre); err != nil {
				return nil, err
			}
			events := g.Events
			if events == nil {
				events = []CompactEvent{}
			}
			if err := writeValue(&buf, events); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	if err := writeValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

// writeValue encodes v without HTML escaping so names like "Arts & Theatre" stay readable.
func writeValue(buf *bytes.Buffer, v interface{}) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
