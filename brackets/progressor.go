package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/pushbike-heats/models"
)

// Entry is a rider re-seeded into a progression round. A nil LatestPlacement
// sorts after every recorded placement.
type Entry struct {
	CompetitorID    int
	LatestPlacement *int
}

// Progress refills a tier's frozen shape for round 2 onwards. Riders are ordered
// by their latest placement and dealt round-robin across matches: the k-th rider
// starts at match k mod M and moves forward to the first match with a free slot.
func Progress(cohort []Entry, shape models.Shape) ([]models.Match, error) {
	if len(cohort) != shape.Capacity() {
		return nil, fmt.Errorf("%w: tier has %d riders but its bracket shape %v seats %d",
			ErrState, len(cohort), []int(shape), shape.Capacity())
	}
	if len(shape) == 0 {
		return nil, nil
	}

	sorted := make([]Entry, len(cohort))
	copy(sorted, cohort)
	sort.SliceStable(sorted, func(i, j int) bool {
		return placementLess(sorted[i].LatestPlacement, sorted[j].LatestPlacement)
	})

	matches := make([]models.Match, len(shape))
	for i, capacity := range shape {
		matches[i] = models.Match{
			Ordinal:     i + 1,
			Capacity:    capacity,
			Competitors: make([]int, 0, capacity),
		}
	}

	for k, e := range sorted {
		m := k % len(matches)
		for len(matches[m].Competitors) >= matches[m].Capacity {
			m = (m + 1) % len(matches)
		}
		matches[m].Competitors = append(matches[m].Competitors, e.CompetitorID)
	}
	return matches, nil
}

// placementLess orders recorded placements ascending with unset placements last.
func placementLess(a, b *int) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}
