package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeds(ids ...int) []Seed {
	out := make([]Seed, len(ids))
	for i, id := range ids {
		out[i] = Seed{CompetitorID: id}
	}
	return out
}

func TestSplitStandings_OpeningRoundFloor(t *testing.T) {
	split := SplitStandings([][]Seed{seeds(1, 2, 3, 4, 5), seeds(6, 7, 8, 9, 10)}, FloorHalf)

	assert.Equal(t, [][]int{{1, 2}, {6, 7}}, split.Primary)
	assert.Equal(t, [][]int{{3, 4, 5}, {8, 9, 10}}, split.Secondary)
}

func TestSplitStandings_CeilAndStableTies(t *testing.T) {
	group := []Seed{
		{CompetitorID: 1, Score: 7},
		{CompetitorID: 2, Score: 3},
		{CompetitorID: 3, Score: 7},
		{CompetitorID: 4, Score: 3},
		{CompetitorID: 5, Score: 1},
	}
	split := SplitStandings([][]Seed{group}, CeilHalf)

	assert.Equal(t, [][]int{{5, 2, 4}}, split.Primary)
	assert.Equal(t, [][]int{{1, 3}}, split.Secondary)
	assert.Equal(t, 1, group[0].CompetitorID, "input must not be reordered")
}

func TestSplitStandings_SmallGroups(t *testing.T) {
	split := SplitStandings([][]Seed{seeds(1), nil}, FloorHalf)
	assert.Equal(t, [][]int{{}, {}}, split.Primary)
	assert.Equal(t, [][]int{{1}, {}}, split.Secondary)
}

func TestParseSplitRule(t *testing.T) {
	r, err := ParseSplitRule("CEIL")
	require.NoError(t, err)
	assert.Equal(t, CeilHalf, r)

	r, err = ParseSplitRule("")
	require.NoError(t, err)
	assert.Equal(t, FloorHalf, r)

	_, err = ParseSplitRule("half")
	assert.ErrorIs(t, err, ErrConfiguration)
}
