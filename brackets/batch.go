package brackets

import (
	"fmt"

	"github.com/Dosada05/pushbike-heats/models"
)

// AssignBatches splits the roster into batchCount batches of ceil(total/batchCount)
// riders each, in roster order. Trailing batches may be short or absent.
// Each rider gets gate1 = position+1 and a gate2 shifted by half the batch,
// so the two qualifying heats start from different gates.
func AssignBatches(roster []int, batchCount int) ([]models.Batch, error) {
	if batchCount < 1 {
		return nil, fmt.Errorf("%w: batch count must be at least 1, got %d", ErrConfiguration, batchCount)
	}
	if len(roster) == 0 {
		return nil, nil
	}

	size := (len(roster) + batchCount - 1) / batchCount
	batches := make([]models.Batch, 0, batchCount)
	for start, idx := 0, 0; start < len(roster) && idx < batchCount; start, idx = start+size, idx+1 {
		end := start + size
		if end > len(roster) {
			end = len(roster)
		}
		batches = append(batches, models.Batch{
			Index: idx,
			Slots: gateSlots(roster[start:end]),
		})
	}
	return batches, nil
}

func gateSlots(members []int) []models.BatchSlot {
	n := len(members)
	slots := make([]models.BatchSlot, n)
	for i, id := range members {
		slots[i] = models.BatchSlot{
			CompetitorID: id,
			Position:     i,
			Gate1:        i + 1,
		}
		if n > 1 {
			g2 := (i+n/2)%n + 1
			slots[i].Gate2 = &g2
		}
	}
	return slots
}
