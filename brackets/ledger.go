package brackets

import (
	"sort"

	"github.com/Dosada05/pushbike-heats/models"
)

type ledgerKey struct {
	competitorID int
	round        int
}

// Ledger is an immutable view of an event's finish records keyed by
// (competitor, round). With returns a new ledger, the receiver never changes.
type Ledger struct {
	records map[ledgerKey]models.FinishRecord
}

func NewLedger(records []models.FinishRecord) *Ledger {
	l := &Ledger{records: make(map[ledgerKey]models.FinishRecord, len(records))}
	for _, r := range records {
		l.records[ledgerKey{r.CompetitorID, r.Round}] = r
	}
	return l
}

// With returns a copy of the ledger with rec upserted.
func (l *Ledger) With(rec models.FinishRecord) *Ledger {
	next := &Ledger{records: make(map[ledgerKey]models.FinishRecord, len(l.records)+1)}
	for k, v := range l.records {
		next.records[k] = v
	}
	next.records[ledgerKey{rec.CompetitorID, rec.Round}] = rec
	return next
}

func (l *Ledger) Get(competitorID, round int) (models.FinishRecord, bool) {
	r, ok := l.records[ledgerKey{competitorID, round}]
	return r, ok
}

// Placement returns nil when the rider has no finish for the round.
func (l *Ledger) Placement(competitorID, round int) *int {
	r, ok := l.Get(competitorID, round)
	if !ok || r.Placement == nil {
		return nil
	}
	p := *r.Placement
	return &p
}

func (l *Ledger) Penalty(competitorID, round int) int {
	r, _ := l.Get(competitorID, round)
	return r.Penalty
}

// TotalScore sums placement (absent counts as 0) plus penalty over rounds 1..throughRound.
func (l *Ledger) TotalScore(competitorID, throughRound int) int {
	total := 0
	for round := 1; round <= throughRound; round++ {
		if r, ok := l.Get(competitorID, round); ok {
			total += r.Points()
		}
	}
	return total
}

// RoundRecords returns the round's records ordered by competitor id.
func (l *Ledger) RoundRecords(round int) []models.FinishRecord {
	out := make([]models.FinishRecord, 0)
	for k, v := range l.records {
		if k.round == round {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompetitorID < out[j].CompetitorID })
	return out
}

// LastRound is the highest round with at least one record, 0 when empty.
func (l *Ledger) LastRound() int {
	last := 0
	for k := range l.records {
		if k.round > last {
			last = k.round
		}
	}
	return last
}
