package brackets

import (
	"testing"

	"github.com/Dosada05/pushbike-heats/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(id, round, placement int) models.FinishRecord {
	return models.FinishRecord{CompetitorID: id, Round: round, Placement: intp(placement)}
}

// roundOneResults places every rider of the ten-rider event's first round.
func roundOneResults() []models.FinishRecord {
	return []models.FinishRecord{
		place(1, 1, 4), place(6, 1, 3), place(2, 1, 2), place(7, 1, 1),
		place(3, 1, 6), place(8, 1, 5), place(4, 1, 4), place(9, 1, 3), place(5, 1, 2), place(10, 1, 1),
	}
}

func tenRiderSnapshot(t *testing.T, records []models.FinishRecord, finalized int) Snapshot {
	t.Helper()
	batches, err := AssignBatches(roster(10), 2)
	require.NoError(t, err)
	return Snapshot{Batches: batches, Ledger: NewLedger(records), FinalizedThrough: finalized}
}

func newController(t *testing.T) *Controller {
	t.Helper()
	c, err := NewController(DefaultSettings())
	require.NoError(t, err)
	return c
}

func TestController_OpeningRound(t *testing.T) {
	c := newController(t)
	snap := tenRiderSnapshot(t, nil, 0)

	st, err := c.Status(snap)
	require.NoError(t, err)
	assert.Equal(t, 1, st.CurrentRound)
	assert.Equal(t, models.PhaseSeeded, st.Phase)
	assert.Equal(t, models.Shape{4}, st.Shapes[models.TierPrimary])
	assert.Equal(t, models.Shape{6}, st.Shapes[models.TierSecondary])

	primary, err := c.Bracket(snap, 1, models.TierPrimary)
	require.NoError(t, err)
	require.Len(t, primary, 1)
	assert.Equal(t, []int{1, 6, 2, 7}, primary[0].Competitors)

	secondary, err := c.Bracket(snap, 1, models.TierSecondary)
	require.NoError(t, err)
	require.Len(t, secondary, 1)
	assert.Equal(t, []int{3, 8, 4, 9, 5, 10}, secondary[0].Competitors)

	_, err = c.Bracket(snap, 2, models.TierPrimary)
	assert.ErrorIs(t, err, ErrState)
	_, err = c.Bracket(snap, 1, models.Tier("gold"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestController_StatusWithoutBatches(t *testing.T) {
	c := newController(t)
	_, err := c.Status(Snapshot{})
	assert.ErrorIs(t, err, ErrState)
}

func TestController_ProgressionReseedsByResults(t *testing.T) {
	c := newController(t)
	snap := tenRiderSnapshot(t, roundOneResults(), 1)

	st, err := c.Status(snap)
	require.NoError(t, err)
	assert.Equal(t, 2, st.CurrentRound)
	assert.Equal(t, models.PhaseSeeded, st.Phase)

	round, err := c.Round(snap, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 10, 2, 5}, round.Tiers[models.TierPrimary][0].Competitors)
	assert.Equal(t, []int{6, 9, 1, 4, 8, 3}, round.Tiers[models.TierSecondary][0].Competitors)

	phase, err := c.RoundPhase(snap, 1)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseFinalized, phase)
}

func TestController_RecomputationIsIdempotent(t *testing.T) {
	c := newController(t)
	snap := tenRiderSnapshot(t, roundOneResults(), 1)

	first, err := c.Round(snap, 2)
	require.NoError(t, err)
	second, err := c.Round(snap, 2)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("round 2 changed between identical derivations (-first +second):\n%s", diff)
	}
}

func TestController_AmendedResultChangesLaterRound(t *testing.T) {
	c := newController(t)
	before := tenRiderSnapshot(t, roundOneResults(), 1)
	served, err := c.Bracket(before, 2, models.TierPrimary)
	require.NoError(t, err)

	ledger := before.Ledger.With(place(7, 1, 4)).With(place(1, 1, 1))
	after := Snapshot{Batches: before.Batches, Ledger: ledger, FinalizedThrough: 1}
	fresh, err := c.Bracket(after, 2, models.TierPrimary)
	require.NoError(t, err)

	assert.NotEqual(t, served, fresh)
	assert.Equal(t, []int{1, 10, 2, 6}, fresh[0].Competitors)
}

func TestController_CheckRecord(t *testing.T) {
	c := newController(t)
	snap := tenRiderSnapshot(t, []models.FinishRecord{place(1, 1, 1)}, 0)

	seat, err := c.CheckRecord(snap, place(6, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, models.TierPrimary, seat.Tier)
	assert.Equal(t, 1, seat.Match.Ordinal)

	_, err = c.CheckRecord(snap, place(6, 1, 1))
	assert.ErrorIs(t, err, ErrValidation, "duplicate placement in match")

	_, err = c.CheckRecord(snap, place(1, 1, 1))
	assert.NoError(t, err, "re-recording own placement is an upsert")

	_, err = c.CheckRecord(snap, place(6, 1, 5))
	assert.ErrorIs(t, err, ErrValidation, "placement beyond match size")

	_, err = c.CheckRecord(snap, place(3, 1, 1))
	assert.NoError(t, err, "same placement is fine in another tier")

	_, err = c.CheckRecord(snap, place(6, 1, 0))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = c.CheckRecord(snap, models.FinishRecord{CompetitorID: 6, Round: 1, Penalty: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = c.CheckRecord(snap, place(99, 1, 1))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.CheckRecord(snap, place(6, 2, 1))
	assert.ErrorIs(t, err, ErrNotFound, "round 2 is not open yet")

	_, err = c.CheckRecord(snap, models.FinishRecord{CompetitorID: 6, Round: 1, Penalty: 3})
	assert.NoError(t, err, "penalty without placement")
}

func TestController_CheckFinalize(t *testing.T) {
	c := newController(t)

	snap := tenRiderSnapshot(t, roundOneResults(), 0)
	require.NoError(t, c.CheckFinalize(snap, 1))
	assert.ErrorIs(t, c.CheckFinalize(snap, 2), ErrState)
	assert.ErrorIs(t, c.CheckFinalize(snap, 0), ErrNotFound)

	done := tenRiderSnapshot(t, roundOneResults(), 1)
	assert.ErrorIs(t, c.CheckFinalize(done, 1), ErrState)

	// 7 and 10 share the round 2 primary heat
	clash := tenRiderSnapshot(t, append(roundOneResults(), place(7, 2, 1), place(10, 2, 1)), 1)
	assert.ErrorIs(t, c.CheckFinalize(clash, 2), ErrValidation)
}

func TestController_CompletesWhenBracketsAreSmall(t *testing.T) {
	c := newController(t)

	afterOne := tenRiderSnapshot(t, roundOneResults(), 1)
	st, err := c.Status(afterOne)
	require.NoError(t, err)
	assert.False(t, st.Complete(), "qualifying rounds are always raced")

	records := append(roundOneResults(),
		place(7, 2, 2), place(10, 2, 1), place(2, 2, 4), place(5, 2, 3),
		place(6, 2, 1), place(9, 2, 2), place(1, 2, 3), place(4, 2, 4), place(8, 2, 5),
	)
	snap := tenRiderSnapshot(t, records, 2)
	st, err = c.Status(snap)
	require.NoError(t, err)
	assert.True(t, st.Complete())
	assert.Equal(t, 2, st.CurrentRound)

	_, err = c.Round(snap, 3)
	assert.ErrorIs(t, err, ErrState)
	assert.ErrorIs(t, c.CheckFinalize(snap, 3), ErrState)

	final, err := c.FinalStandings(snap)
	require.NoError(t, err)
	require.Len(t, final, 10)

	order := make([]int, len(final))
	for i, f := range final {
		order[i] = f.CompetitorID
		assert.Equal(t, i+1, f.Position)
	}
	assert.Equal(t, []int{10, 7, 5, 2, 6, 9, 1, 4, 8, 3}, order)
	assert.Equal(t, models.TierPrimary, final[0].Tier)
	assert.Equal(t, models.TierSecondary, final[9].Tier)
	assert.Nil(t, final[9].Placement)
	assert.Equal(t, 1+1, final[0].TotalScore)
}

func TestController_FinalStandingsBeforeCompletion(t *testing.T) {
	c := newController(t)
	_, err := c.FinalStandings(tenRiderSnapshot(t, roundOneResults(), 1))
	assert.ErrorIs(t, err, ErrState)
}

func TestController_MaxRoundsEndsLargeEvents(t *testing.T) {
	c, err := NewController(Settings{QualifyingRounds: 2, MaxRounds: 3, LaterSplit: FloorHalf})
	require.NoError(t, err)

	batches, err := AssignBatches(roster(10), 5)
	require.NoError(t, err)

	snap := Snapshot{Batches: batches, Ledger: NewLedger(nil), FinalizedThrough: 2}
	st, err := c.Status(snap)
	require.NoError(t, err)
	assert.Equal(t, models.Shape{2, 2, 1}, st.Shapes[models.TierPrimary])
	assert.False(t, st.Complete())
	assert.Equal(t, 3, st.CurrentRound)

	snap.FinalizedThrough = 3
	st, err = c.Status(snap)
	require.NoError(t, err)
	assert.True(t, st.Complete())
}

func TestController_CeilRuleSeedsOddBatches(t *testing.T) {
	c, err := NewController(Settings{QualifyingRounds: 2, MaxRounds: 4, LaterSplit: CeilHalf})
	require.NoError(t, err)
	snap := tenRiderSnapshot(t, roundOneResults(), 1)

	opening, err := c.Bracket(snap, 1, models.TierPrimary)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 6, 2, 7}, opening[0].Competitors, "round 1 always cuts with floor")

	st, err := c.Status(snap)
	require.NoError(t, err)
	assert.Equal(t, 2, st.CurrentRound)
	assert.Equal(t, models.Shape{6}, st.Shapes[models.TierPrimary])
	assert.Equal(t, models.Shape{4}, st.Shapes[models.TierSecondary])

	round, err := c.Round(snap, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 10, 2, 5, 6, 1}, round.Tiers[models.TierPrimary][0].Competitors)
	assert.Equal(t, []int{9, 4, 8, 3}, round.Tiers[models.TierSecondary][0].Competitors)

	records := append(roundOneResults(),
		place(7, 2, 1), place(10, 2, 2), place(2, 2, 3), place(5, 2, 4), place(6, 2, 5), place(1, 2, 6),
		place(9, 2, 1), place(4, 2, 2), place(8, 2, 3), place(3, 2, 4),
	)
	require.NoError(t, c.CheckFinalize(tenRiderSnapshot(t, records, 1), 2))

	st, err = c.Status(tenRiderSnapshot(t, records, 2))
	require.NoError(t, err)
	assert.True(t, st.Complete())
	final, err := c.FinalStandings(tenRiderSnapshot(t, records, 2))
	require.NoError(t, err)
	require.Len(t, final, 10)
	assert.Equal(t, 7, final[0].CompetitorID)
	assert.Equal(t, 3, final[9].CompetitorID)
}

func TestController_Standings(t *testing.T) {
	c := newController(t)
	snap := tenRiderSnapshot(t, []models.FinishRecord{
		place(7, 1, 1), place(1, 1, 1),
		{CompetitorID: 3, Round: 1, Placement: intp(2), Penalty: 5},
	}, 0)

	standings := c.Standings(snap)
	require.Len(t, standings, 10)
	assert.Equal(t, models.Standing{CompetitorID: 2, TotalScore: 0, Rank: 1}, standings[0])
	assert.Equal(t, 3, standings[len(standings)-1].CompetitorID)
	assert.Equal(t, 7, standings[len(standings)-1].TotalScore)
	assert.Equal(t, 1, standings[7].CompetitorID)
	assert.Equal(t, 7, standings[8].CompetitorID)
}

func TestController_StandingsIgnoreReopenedRounds(t *testing.T) {
	c := newController(t)
	batches, err := AssignBatches(roster(12), 6)
	require.NoError(t, err)
	ledger := NewLedger([]models.FinishRecord{
		place(1, 1, 1),
		{CompetitorID: 1, Round: 3, Placement: intp(2), Penalty: 50},
	})

	totalOf := func(standings []models.Standing, id int) int {
		for _, s := range standings {
			if s.CompetitorID == id {
				return s.TotalScore
			}
		}
		t.Fatalf("competitor %d missing from standings", id)
		return 0
	}

	racing := Snapshot{Batches: batches, Ledger: ledger, FinalizedThrough: 2}
	st, err := c.Status(racing)
	require.NoError(t, err)
	require.Equal(t, 3, st.CurrentRound)
	assert.Equal(t, 53, totalOf(c.Standings(racing), 1))

	// amending round 1 reopens round 2, round 3 results no longer belong to any bracket
	amended := Snapshot{Batches: batches, Ledger: ledger, FinalizedThrough: 1}
	_, err = c.Round(amended, 3)
	require.ErrorIs(t, err, ErrState)
	standings := c.Standings(amended)
	assert.Equal(t, 1, totalOf(standings, 1))
	assert.Equal(t, 12, standings[len(standings)-1].Rank)
	assert.Equal(t, 1, standings[len(standings)-1].CompetitorID)
}

func TestFinalizedPrefix(t *testing.T) {
	assert.Equal(t, 0, FinalizedPrefix(nil))
	assert.Equal(t, 2, FinalizedPrefix([]int{2, 1, 4}))
	assert.Equal(t, 0, FinalizedPrefix([]int{2, 3}))
}

func TestSettingsValidate(t *testing.T) {
	_, err := NewController(Settings{QualifyingRounds: 0, MaxRounds: 3})
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewController(Settings{QualifyingRounds: 3, MaxRounds: 2})
	assert.ErrorIs(t, err, ErrConfiguration)
}
