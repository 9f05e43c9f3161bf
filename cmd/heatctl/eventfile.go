package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/models"
	"gopkg.in/yaml.v3"
)

// eventFile is the offline description of an event: roster, settings and the
// results recorded so far.
type eventFile struct {
	Name       string `yaml:"name"`
	BatchCount int    `yaml:"batch_count"`
	Settings   struct {
		QualifyingRounds int    `yaml:"qualifying_rounds"`
		MaxRounds        int    `yaml:"max_rounds"`
		LaterSplit       string `yaml:"later_split"`
	} `yaml:"settings"`
	Competitors []struct {
		ID    int    `yaml:"id"`
		Name  string `yaml:"name"`
		Plate string `yaml:"plate"`
	} `yaml:"competitors"`
	// Finalized lists closed rounds; only the contiguous prefix from round 1 counts.
	Finalized []int `yaml:"finalized"`
	Results   []struct {
		Competitor int  `yaml:"competitor"`
		Round      int  `yaml:"round"`
		Placement  *int `yaml:"placement"`
		Penalty    int  `yaml:"penalty"`
	} `yaml:"results"`
}

func loadEventFile(path string) (*eventFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event file: %w", err)
	}
	var ev eventFile
	if err := yaml.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("parse event file %s: %w", path, err)
	}
	return &ev, nil
}

func (ev *eventFile) settings() (brackets.Settings, error) {
	s := brackets.DefaultSettings()
	if ev.Settings.QualifyingRounds != 0 {
		s.QualifyingRounds = ev.Settings.QualifyingRounds
	}
	if ev.Settings.MaxRounds != 0 {
		s.MaxRounds = ev.Settings.MaxRounds
	}
	rule, err := brackets.ParseSplitRule(ev.Settings.LaterSplit)
	if err != nil {
		return brackets.Settings{}, err
	}
	s.LaterSplit = rule
	return s, s.Validate()
}

func (ev *eventFile) batches() ([]models.Batch, error) {
	roster := make([]int, len(ev.Competitors))
	seen := make(map[int]bool, len(ev.Competitors))
	for i, c := range ev.Competitors {
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: competitor %d listed twice", brackets.ErrValidation, c.ID)
		}
		seen[c.ID] = true
		roster[i] = c.ID
	}
	return brackets.AssignBatches(roster, ev.BatchCount)
}

// snapshot replays the recorded results through the same checks the server
// applies, so a file with an impossible placement is rejected.
func (ev *eventFile) snapshot(c *brackets.Controller) (brackets.Snapshot, error) {
	batches, err := ev.batches()
	if err != nil {
		return brackets.Snapshot{}, err
	}
	final := brackets.FinalizedPrefix(ev.Finalized)

	order := make([]int, len(ev.Results))
	for i := range order {
		order[i] = i
	}
	// a round's bracket depends on earlier rounds, so replay in round order
	sort.SliceStable(order, func(a, b int) bool { return ev.Results[order[a]].Round < ev.Results[order[b]].Round })

	snap := brackets.Snapshot{Batches: batches, Ledger: brackets.NewLedger(nil), FinalizedThrough: final}
	for _, i := range order {
		r := ev.Results[i]
		rec := models.FinishRecord{CompetitorID: r.Competitor, Round: r.Round, Placement: r.Placement, Penalty: r.Penalty}
		if _, err := c.CheckRecord(snap, rec); err != nil {
			return brackets.Snapshot{}, fmt.Errorf("result #%d: %w", i+1, err)
		}
		snap.Ledger = snap.Ledger.With(rec)
	}
	return snap, nil
}
