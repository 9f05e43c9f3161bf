package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type options struct {
	file   string
	output string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "heatctl",
		Short:         "Offline heat progression for push-bike events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "event.yaml", "event file")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "yaml", "output format: yaml or json")

	root.AddCommand(
		newBatchesCmd(opts),
		newBracketCmd(opts),
		newStandingsCmd(opts),
		newStatusCmd(opts),
		newResultsCmd(opts),
	)
	return root
}

// load reads the event file and replays its results.
func (o *options) load() (*brackets.Controller, brackets.Snapshot, error) {
	ev, err := loadEventFile(o.file)
	if err != nil {
		return nil, brackets.Snapshot{}, err
	}
	settings, err := ev.settings()
	if err != nil {
		return nil, brackets.Snapshot{}, err
	}
	c, err := brackets.NewController(settings)
	if err != nil {
		return nil, brackets.Snapshot{}, err
	}
	snap, err := ev.snapshot(c)
	if err != nil {
		return nil, brackets.Snapshot{}, err
	}
	return c, snap, nil
}

func (o *options) print(w io.Writer, v interface{}) error {
	switch o.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		// go through JSON so field names match the HTTP API
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
}

func newBatchesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "batches",
		Short: "Show batches and gate assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := loadEventFile(opts.file)
			if err != nil {
				return err
			}
			batches, err := ev.batches()
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), batches)
		},
	}
}

func newBracketCmd(opts *options) *cobra.Command {
	var round int
	var tier string
	cmd := &cobra.Command{
		Use:   "bracket",
		Short: "Show the matches of a round",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, snap, err := opts.load()
			if err != nil {
				return err
			}
			if tier == "" {
				r, err := c.Round(snap, round)
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), r)
			}
			matches, err := c.Bracket(snap, round, models.Tier(tier))
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), matches)
		},
	}
	cmd.Flags().IntVarP(&round, "round", "r", 1, "round number")
	cmd.Flags().StringVarP(&tier, "tier", "t", "", "primary or secondary; both tiers when empty")
	return cmd
}

func newStandingsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Show cumulative standings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, snap, err := opts.load()
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), c.Standings(snap))
		},
	}
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current round and its phase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, snap, err := opts.load()
			if err != nil {
				return err
			}
			st, err := c.Status(snap)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), st)
		},
	}
}

func newResultsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Show the final results table of a completed event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, snap, err := opts.load()
			if err != nil {
				return err
			}
			final, err := c.FinalStandings(snap)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), final)
		},
	}
}
