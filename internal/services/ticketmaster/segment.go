package ticketmaster

import "eventaide/internal/models"

// Segment groups events by segment then genre, keeping upstream order.
// Events without a segment or genre go under "Unknown"; the "Undefined"
// segment is dropped.
func Segment(events []models.Event) *models.SegmentedEvents {
	grouped := &models.SegmentedEvents{}
	for _, ev := range events {
		segment := ev.Classification.Segment
		if segment == "" {
			segment = unknownGroup
		}
		genre := ev.Classification.Genre
		if genre == "" {
			genre = unknownGroup
		}
		grouped.Add(segment, genre, ev.Compact())
	}
	grouped.Remove(undefinedSegment)
	return grouped
}
