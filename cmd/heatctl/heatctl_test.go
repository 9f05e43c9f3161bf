package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const tenRiders = `
name: Kejurda Push Bike
batch_count: 2
competitors:
  - {id: 1, name: Abi}
  - {id: 2, name: Bima}
  - {id: 3, name: Cinta}
  - {id: 4, name: Dafa}
  - {id: 5, name: Elang}
  - {id: 6, name: Fajar}
  - {id: 7, name: Gita}
  - {id: 8, name: Hana}
  - {id: 9, name: Ilham}
  - {id: 10, name: Jaka}
finalized: [1]
results:
  - {competitor: 1, round: 1, placement: 4}
  - {competitor: 6, round: 1, placement: 3}
  - {competitor: 2, round: 1, placement: 2}
  - {competitor: 7, round: 1, placement: 1}
  - {competitor: 3, round: 1, placement: 6}
  - {competitor: 8, round: 1, placement: 5}
  - {competitor: 4, round: 1, placement: 4}
  - {competitor: 9, round: 1, placement: 3}
  - {competitor: 5, round: 1, placement: 2}
  - {competitor: 10, round: 1, placement: 1}
`

func writeEvent(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBracketCommand(t *testing.T) {
	path := writeEvent(t, tenRiders)

	out, err := run(t, "bracket", "-f", path, "-r", "2", "-t", "primary", "-o", "json")
	require.NoError(t, err)
	var matches []models.Match
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, []int{7, 10, 2, 5}, matches[0].Competitors)

	_, err = run(t, "bracket", "-f", path, "-r", "3")
	assert.ErrorIs(t, err, brackets.ErrState)
}

func TestStatusAndStandingsCommands(t *testing.T) {
	path := writeEvent(t, tenRiders)

	out, err := run(t, "status", "-f", path, "-o", "json")
	require.NoError(t, err)
	var st brackets.Status
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 2, st.CurrentRound)
	assert.Equal(t, models.PhaseSeeded, st.Phase)

	out, err = run(t, "standings", "-f", path)
	require.NoError(t, err)
	var standings []map[string]int
	require.NoError(t, yaml.Unmarshal([]byte(out), &standings))
	require.Len(t, standings, 10)
	assert.Equal(t, 7, standings[0]["competitor_id"])
	assert.Equal(t, 1, standings[0]["total_score"])
}

func TestBatchesCommand(t *testing.T) {
	out, err := run(t, "batches", "-f", writeEvent(t, tenRiders), "-o", "json")
	require.NoError(t, err)
	var batches []models.Batch
	require.NoError(t, json.Unmarshal([]byte(out), &batches))
	require.Len(t, batches, 2)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, batches[1].Members())
}

func TestInvalidEventFiles(t *testing.T) {
	cases := map[string]string{
		"duplicate placement": `
batch_count: 1
competitors: [{id: 1}, {id: 2}, {id: 3}, {id: 4}]
results:
  - {competitor: 1, round: 1, placement: 1}
  - {competitor: 2, round: 1, placement: 1}
`,
		"duplicate competitor": `
batch_count: 1
competitors: [{id: 1}, {id: 1}]
`,
		"bad split rule": `
batch_count: 1
settings: {later_split: half}
competitors: [{id: 1}, {id: 2}]
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, "status", "-f", writeEvent(t, body))
			assert.Error(t, err)
		})
	}

	_, err := run(t, "status", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = run(t, "status", "-f", writeEvent(t, tenRiders), "-o", "xml")
	assert.Error(t, err)
}
