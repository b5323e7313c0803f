// Package interests extracts event categories from free-form user text.
package interests

import (
	"regexp"

	"eventaide/internal/models"
)

var patterns = []struct {
	interest models.Interest
	re       *regexp.Regexp
}{
	{models.InterestSports, regexp.MustCompile(`(?i)\bsports?\b`)},
	{models.InterestMusic, regexp.MustCompile(`(?i)\bmusic\b`)},
	{models.InterestMovies, regexp.MustCompile(`(?i)\b(?:movies?|films?)\b`)},
}

// Parse returns the interests mentioned in text in sports, music, movies order.
// When nothing matches every interest is returned.
func Parse(text string) []models.Interest {
	found := make([]models.Interest, 0, len(patterns))
	for _, p := range patterns {
		if p.re.MatchString(text) {
			found = append(found, p.interest)
		}
	}
	if len(found) == 0 {
		return All()
	}
	return found
}

// All returns a fresh copy of every interest in priority order.
func All() []models.Interest {
	out := make([]models.Interest, len(models.AllInterests))
	copy(out, models.AllInterests)
	return out
}
