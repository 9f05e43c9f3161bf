package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/pushbike-heats/models"
)

// Settings control round progression. Round 1 always splits with FloorHalf;
// rounds 2 onwards split with LaterSplit and refill the shape that cut produces.
type Settings struct {
	QualifyingRounds int
	MaxRounds        int
	LaterSplit       SplitRule
}

func DefaultSettings() Settings {
	return Settings{QualifyingRounds: 2, MaxRounds: 6, LaterSplit: FloorHalf}
}

func (s Settings) Validate() error {
	if s.QualifyingRounds < 1 {
		return fmt.Errorf("%w: qualifying rounds must be at least 1, got %d", ErrConfiguration, s.QualifyingRounds)
	}
	if s.MaxRounds < s.QualifyingRounds {
		return fmt.Errorf("%w: max rounds (%d) must not be lower than qualifying rounds (%d)",
			ErrConfiguration, s.MaxRounds, s.QualifyingRounds)
	}
	return nil
}

// Snapshot is everything a round derivation depends on. FinalizedThrough is the
// last round of the contiguous finalized prefix 1..n.
type Snapshot struct {
	Batches          []models.Batch
	Ledger           *Ledger
	FinalizedThrough int
}

func (s Snapshot) ledger() *Ledger {
	if s.Ledger == nil {
		return NewLedger(nil)
	}
	return s.Ledger
}

// FinalizedPrefix returns n such that rounds 1..n are all marked finalized.
func FinalizedPrefix(rounds []int) int {
	seen := make(map[int]bool, len(rounds))
	for _, r := range rounds {
		seen[r] = true
	}
	n := 0
	for seen[n+1] {
		n++
	}
	return n
}

// Status is the current round of an event. Shapes are the bracket shapes that
// round is raced in.
type Status struct {
	CurrentRound     int                          `json:"current_round"`
	Phase            models.RoundPhase            `json:"phase"`
	FinalizedThrough int                          `json:"finalized_through"`
	Shapes           map[models.Tier]models.Shape `json:"shapes"`
}

func (s Status) Complete() bool {
	return s.Phase == models.PhaseComplete
}

// Controller derives rounds from a snapshot. It holds no per-event state, so
// the same snapshot always yields the same brackets.
type Controller struct {
	settings Settings
}

func NewController(settings Settings) (*Controller, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Controller{settings: settings}, nil
}

func (c *Controller) Settings() Settings {
	return c.settings
}

// seedGroups returns the batches as seeding groups scored through round `through`.
func seedGroups(snap Snapshot, through int) [][]Seed {
	groups := make([][]Seed, len(snap.Batches))
	for i, b := range snap.Batches {
		groups[i] = make([]Seed, len(b.Slots))
		for j, s := range b.Slots {
			groups[i][j] = Seed{CompetitorID: s.CompetitorID, Score: snap.ledger().TotalScore(s.CompetitorID, through)}
		}
	}
	return groups
}

// opening interleaves the batches of both tiers cut by rule. With FloorHalf it
// is round 1 itself.
func (c *Controller) opening(snap Snapshot, rule SplitRule) (map[models.Tier][]models.Match, map[models.Tier]models.Shape) {
	split := SplitStandings(seedGroups(snap, 0), rule)

	matches := make(map[models.Tier][]models.Match, 2)
	shapes := make(map[models.Tier]models.Shape, 2)
	matches[models.TierPrimary], shapes[models.TierPrimary] = BuildOpening(split.Primary)
	matches[models.TierSecondary], shapes[models.TierSecondary] = BuildOpening(split.Secondary)
	return matches, shapes
}

// shapes returns the frozen tier shapes round n is filled into. Later rounds take
// theirs from an opening cut with LaterSplit, so tier sizes always fit.
func (c *Controller) shapes(snap Snapshot, n int) map[models.Tier]models.Shape {
	rule := FloorHalf
	if n > 1 {
		rule = c.settings.LaterSplit
	}
	_, shapes := c.opening(snap, rule)
	return shapes
}

// derive builds round n unconditionally from batches and records of rounds < n.
func (c *Controller) derive(snap Snapshot, n int) (*models.Round, error) {
	if n == 1 {
		opening, _ := c.opening(snap, FloorHalf)
		return &models.Round{Number: 1, Tiers: opening}, nil
	}

	shapes := c.shapes(snap, n)
	split := SplitStandings(seedGroups(snap, n-1), c.settings.LaterSplit)
	byTier := map[models.Tier][][]int{
		models.TierPrimary:   split.Primary,
		models.TierSecondary: split.Secondary,
	}

	round := &models.Round{Number: n, Tiers: make(map[models.Tier][]models.Match, 2)}
	for _, tier := range models.Tiers {
		cohort := make([]Entry, 0, shapes[tier].Capacity())
		for _, g := range byTier[tier] {
			for _, id := range g {
				cohort = append(cohort, Entry{CompetitorID: id, LatestPlacement: snap.ledger().Placement(id, n-1)})
			}
		}
		matches, err := Progress(cohort, shapes[tier])
		if err != nil {
			return nil, fmt.Errorf("round %d %s tier: %w", n, tier, err)
		}
		round.Tiers[tier] = matches
	}
	return round, nil
}

// terminal reports whether finalizing round n ends the event.
func (c *Controller) terminal(snap Snapshot, n int) (bool, error) {
	if n < c.settings.QualifyingRounds {
		return false, nil
	}
	if n >= c.settings.MaxRounds {
		return true, nil
	}
	next, err := c.derive(snap, n+1)
	if err != nil {
		return false, err
	}
	return len(next.Tiers[models.TierPrimary]) <= 2 && len(next.Tiers[models.TierSecondary]) <= 2, nil
}

func (c *Controller) Status(snap Snapshot) (Status, error) {
	if len(snap.Batches) == 0 {
		return Status{}, fmt.Errorf("%w: batches have not been assigned", ErrState)
	}
	st := Status{FinalizedThrough: snap.FinalizedThrough}

	if f := snap.FinalizedThrough; f > 0 {
		done, err := c.terminal(snap, f)
		if err != nil {
			return Status{}, err
		}
		if done {
			st.CurrentRound = f
			st.Phase = models.PhaseComplete
			st.Shapes = c.shapes(snap, f)
			return st, nil
		}
	}

	st.CurrentRound = snap.FinalizedThrough + 1
	st.Phase = models.PhaseSeeded
	st.Shapes = c.shapes(snap, st.CurrentRound)
	if len(snap.ledger().RoundRecords(st.CurrentRound)) > 0 {
		st.Phase = models.PhaseAwaitingResults
	}
	return st, nil
}

// Round returns round n if it is finalized or is the round currently being raced.
func (c *Controller) Round(snap Snapshot, n int) (*models.Round, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: round %d", ErrNotFound, n)
	}
	st, err := c.Status(snap)
	if err != nil {
		return nil, err
	}
	if n > st.CurrentRound {
		if st.Complete() {
			return nil, fmt.Errorf("%w: event finished after round %d", ErrState, st.CurrentRound)
		}
		return nil, fmt.Errorf("%w: round %d cannot be seeded before round %d is finalized", ErrState, n, n-1)
	}
	return c.derive(snap, n)
}

// RoundPhase reports the phase of a single round.
func (c *Controller) RoundPhase(snap Snapshot, n int) (models.RoundPhase, error) {
	if _, err := c.Round(snap, n); err != nil {
		return "", err
	}
	if n <= snap.FinalizedThrough {
		return models.PhaseFinalized, nil
	}
	if len(snap.ledger().RoundRecords(n)) > 0 {
		return models.PhaseAwaitingResults, nil
	}
	return models.PhaseSeeded, nil
}

func (c *Controller) Bracket(snap Snapshot, n int, tier models.Tier) ([]models.Match, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: tier %q", ErrNotFound, tier)
	}
	round, err := c.Round(snap, n)
	if err != nil {
		return nil, err
	}
	return round.Tiers[tier], nil
}

// Seat locates a rider in a derived round.
type Seat struct {
	Tier  models.Tier
	Match models.Match
}

func findSeat(round *models.Round, competitorID int) (Seat, bool) {
	for _, tier := range models.Tiers {
		for _, m := range round.Tiers[tier] {
			for _, id := range m.Competitors {
				if id == competitorID {
					return Seat{Tier: tier, Match: m}, true
				}
			}
		}
	}
	return Seat{}, false
}

// CheckRecord validates rec against round rec.Round derived from snap, with the
// ledger as it stands before rec is applied.
func (c *Controller) CheckRecord(snap Snapshot, rec models.FinishRecord) (Seat, error) {
	if rec.Penalty < 0 {
		return Seat{}, fmt.Errorf("%w: penalty must not be negative, got %d", ErrValidation, rec.Penalty)
	}
	if rec.Placement != nil && *rec.Placement < 1 {
		return Seat{}, fmt.Errorf("%w: placement must be positive, got %d", ErrValidation, *rec.Placement)
	}

	round, err := c.Round(snap, rec.Round)
	if err != nil {
		if errors.Is(err, ErrState) {
			return Seat{}, fmt.Errorf("%w: round %d is not open: %v", ErrNotFound, rec.Round, err)
		}
		return Seat{}, err
	}
	seat, ok := findSeat(round, rec.CompetitorID)
	if !ok {
		return Seat{}, fmt.Errorf("%w: competitor %d is not seated in round %d", ErrNotFound, rec.CompetitorID, rec.Round)
	}
	if rec.Placement == nil {
		return seat, nil
	}
	if *rec.Placement > seat.Match.Capacity {
		return Seat{}, fmt.Errorf("%w: placement %d exceeds match %d size %d",
			ErrValidation, *rec.Placement, seat.Match.Ordinal, seat.Match.Capacity)
	}
	for _, other := range seat.Match.Competitors {
		if other == rec.CompetitorID {
			continue
		}
		if p := snap.ledger().Placement(other, rec.Round); p != nil && *p == *rec.Placement {
			return Seat{}, fmt.Errorf("%w: placement %d already taken by competitor %d in %s match %d",
				ErrValidation, *rec.Placement, other, seat.Tier, seat.Match.Ordinal)
		}
	}
	return seat, nil
}

// CheckFinalize verifies round n may be closed: it must be the current round and
// every recorded placement must still fit the round's bracket.
func (c *Controller) CheckFinalize(snap Snapshot, n int) error {
	st, err := c.Status(snap)
	if err != nil {
		return err
	}
	if st.Complete() {
		return fmt.Errorf("%w: event finished after round %d", ErrState, st.CurrentRound)
	}
	if n < 1 {
		return fmt.Errorf("%w: round %d", ErrNotFound, n)
	}
	if n <= snap.FinalizedThrough {
		return fmt.Errorf("%w: round %d is already finalized", ErrState, n)
	}
	if n != st.CurrentRound {
		return fmt.Errorf("%w: round %d cannot be finalized before round %d", ErrState, n, n-1)
	}
	round, err := c.derive(snap, n)
	if err != nil {
		return err
	}

	var errs []error
	for _, tier := range models.Tiers {
		for _, m := range round.Tiers[tier] {
			taken := make(map[int]int, len(m.Competitors))
			for _, id := range m.Competitors {
				p := snap.ledger().Placement(id, n)
				if p == nil {
					continue
				}
				if *p > m.Capacity {
					errs = append(errs, fmt.Errorf("%w: competitor %d placement %d exceeds %s match %d size %d",
						ErrValidation, id, *p, tier, m.Ordinal, m.Capacity))
				}
				if prev, dup := taken[*p]; dup {
					errs = append(errs, fmt.Errorf("%w: competitors %d and %d share placement %d in %s match %d",
						ErrValidation, prev, id, *p, tier, m.Ordinal))
				}
				taken[*p] = id
			}
		}
	}
	return errors.Join(errs...)
}

// Standings ranks every seeded rider by cumulative score through the current
// round, ties broken by competitor id. Records of rounds an amendment reopened
// beyond the current round are left out.
func (c *Controller) Standings(snap Snapshot) []models.Standing {
	through := snap.FinalizedThrough
	if st, err := c.Status(snap); err == nil {
		through = st.CurrentRound
	}

	out := make([]models.Standing, 0)
	for _, b := range snap.Batches {
		for _, s := range b.Slots {
			out = append(out, models.Standing{
				CompetitorID: s.CompetitorID,
				TotalScore:   snap.ledger().TotalScore(s.CompetitorID, through),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore < out[j].TotalScore
		}
		return out[i].CompetitorID < out[j].CompetitorID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// FinalStandings flattens the last round's matches, Primary first, each match
// ordered by its placements with unplaced riders last.
func (c *Controller) FinalStandings(snap Snapshot) ([]models.FinalPlacing, error) {
	st, err := c.Status(snap)
	if err != nil {
		return nil, err
	}
	if !st.Complete() {
		return nil, fmt.Errorf("%w: results are available once the event is complete (current round %d, %s)",
			ErrState, st.CurrentRound, st.Phase)
	}

	last := st.CurrentRound
	round, err := c.derive(snap, last)
	if err != nil {
		return nil, err
	}

	out := make([]models.FinalPlacing, 0)
	for _, tier := range models.Tiers {
		for _, m := range round.Tiers[tier] {
			ids := make([]int, len(m.Competitors))
			copy(ids, m.Competitors)
			sort.SliceStable(ids, func(i, j int) bool {
				return placementLess(snap.ledger().Placement(ids[i], last), snap.ledger().Placement(ids[j], last))
			})
			for _, id := range ids {
				out = append(out, models.FinalPlacing{
					Position:     len(out) + 1,
					CompetitorID: id,
					Tier:         tier,
					Match:        m.Ordinal,
					Placement:    snap.ledger().Placement(id, last),
					TotalScore:   snap.ledger().TotalScore(id, last),
				})
			}
		}
	}
	return out, nil
}
