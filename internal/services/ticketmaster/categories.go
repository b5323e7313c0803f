package ticketmaster

import (
	"context"

	"eventaide/internal/models"
)

// GetEvents returns every event in city without a classification filter.
func (c *Client) GetEvents(ctx context.Context, city string, f Filter) ([]models.Event, error) {
	return c.Search(ctx, Query{City: city, Filter: f})
}

// GetCategory returns the events of one classification grouped by segment and genre.
func (c *Client) GetCategory(ctx context.Context, classification, city string, f Filter) (*models.SegmentedEvents, error) {
	events, err := c.Search(ctx, Query{City: city, Classification: classification, Filter: f})
	if err != nil {
		return nil, err
	}
	return Segment(events), nil
}

// GetAllEvents returns all events in city grouped by segment and genre.
func (c *Client) GetAllEvents(ctx context.Context, city, stateCode string) (*models.SegmentedEvents, error) {
	events, err := c.GetEvents(ctx, city, Filter{StateCode: stateCode})
	if err != nil {
		return nil, err
	}
	return Segment(events), nil
}

func (c *Client) GetMusicEvents(ctx context.Context, city string, f Filter) (*models.SegmentedEvents, error) {
	return c.GetCategory(ctx, ClassificationMusic, city, f)
}

func (c *Client) GetSportsEvents(ctx context.Context, city string, f Filter) (*models.SegmentedEvents, error) {
	return c.GetCategory(ctx, ClassificationSports, city, f)
}

func (c *Client) GetFilmEvents(ctx context.Context, city string, f Filter) (*models.SegmentedEvents, error) {
	return c.GetCategory(ctx, ClassificationFilm, city, f)
}

// GetConcerts is GetMusicEvents with the keyword defaulting to "concert".
func (c *Client) GetConcerts(ctx context.Context, city string, f Filter) (*models.SegmentedEvents, error) {
	if f.Keyword == "" {
		f.Keyword = defaultConcertKw
	}
	return c.GetCategory(ctx, ClassificationMusic, city, f)
}
