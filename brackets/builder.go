package brackets

import "github.com/Dosada05/pushbike-heats/models"

// BuildOpening builds round-1 matches for one tier. Groups are the tier's riders
// per origin batch; empty groups are ignored. With G non-empty groups there are
// ceil(G/2) matches and match k interleaves group k with group k+ceil(G/2).
// The returned shape is frozen for every later round of the tier.
func BuildOpening(groups [][]int) ([]models.Match, models.Shape) {
	present := make([][]int, 0, len(groups))
	for _, g := range groups {
		if len(g) > 0 {
			present = append(present, g)
		}
	}

	g := len(present)
	if g == 0 {
		return nil, nil
	}

	half := (g + 1) / 2
	matches := make([]models.Match, 0, half)
	shape := make(models.Shape, 0, half)
	for k := 0; k < half; k++ {
		a := present[k]
		var b []int
		if k+half < g {
			b = present[k+half]
		}

		slots := make([]int, 0, len(a)+len(b))
		for i := 0; i < len(a) || i < len(b); i++ {
			if i < len(a) {
				slots = append(slots, a[i])
			}
			if i < len(b) {
				slots = append(slots, b[i])
			}
		}
		matches = append(matches, models.Match{
			Ordinal:     k + 1,
			Capacity:    len(slots),
			Competitors: slots,
		})
		shape = append(shape, len(slots))
	}
	return matches, shape
}
