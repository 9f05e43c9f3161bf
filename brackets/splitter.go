package brackets

import (
	"fmt"
	"sort"
	"strings"
)

// SplitRule decides where a sorted group is cut into Primary and Secondary.
type SplitRule int

const (
	// FloorHalf puts floor(n/2) riders in Primary.
	FloorHalf SplitRule = iota
	// CeilHalf puts ceil(n/2) riders in Primary.
	CeilHalf
)

func ParseSplitRule(s string) (SplitRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "floor":
		return FloorHalf, nil
	case "ceil":
		return CeilHalf, nil
	default:
		return FloorHalf, fmt.Errorf("%w: unknown split rule %q", ErrConfiguration, s)
	}
}

func (r SplitRule) String() string {
	if r == CeilHalf {
		return "ceil"
	}
	return "floor"
}

func (r SplitRule) cut(n int) int {
	if r == CeilHalf {
		return (n + 1) / 2
	}
	return n / 2
}

// Seed is a rider with the cumulative score used for tier splitting.
type Seed struct {
	CompetitorID int
	Score        int
}

// TierSplit keeps group boundaries so BracketBuilder can interleave by group.
type TierSplit struct {
	Primary   [][]int
	Secondary [][]int
}

// SplitStandings sorts each group by ascending score (stable on ties) and cuts it
// according to rule. Lower scores go to Primary. Input slices are not modified.
func SplitStandings(groups [][]Seed, rule SplitRule) TierSplit {
	out := TierSplit{
		Primary:   make([][]int, len(groups)),
		Secondary: make([][]int, len(groups)),
	}
	for g, group := range groups {
		sorted := make([]Seed, len(group))
		copy(sorted, group)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Score < sorted[j].Score
		})

		cut := rule.cut(len(sorted))
		out.Primary[g] = seedIDs(sorted[:cut])
		out.Secondary[g] = seedIDs(sorted[cut:])
	}
	return out
}

func seedIDs(seeds []Seed) []int {
	ids := make([]int, len(seeds))
	for i, s := range seeds {
		ids[i] = s.CompetitorID
	}
	return ids
}
