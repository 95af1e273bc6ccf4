package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"encore/internal/pipeline"
	"encore/internal/textutil"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var title string
	var threshold float64
	var startIndex int

	cmd := &cobra.Command{
		Use:   "plan <recording.wav>",
		Short: "Show the tracks a split would produce without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if threshold > 0 {
				return fmt.Errorf("--threshold must be negative dBFS, got %g", threshold)
			}

			// Planning never persists runs, so no store is opened.
			runner := pipeline.NewRunner(cfg, nil, logger)
			run, tracks, err := runner.Plan(cmd.Context(), pipeline.Options{
				SourcePath:  args[0],
				Title:       title,
				ThresholdDB: threshold,
				StartIndex:  startIndex,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			thresholdLabel := fmt.Sprintf("%.1f dBFS", run.ThresholdDB)
			if run.ThresholdAuto {
				thresholdLabel += " (estimated)"
			}
			fmt.Fprintf(out, "%s (%s): %d tracks at threshold %s\n",
				run.Title, textutil.FormatClockMS(run.DurationMS), len(tracks), thresholdLabel)

			rows := make([][]string, 0, len(tracks))
			for _, track := range tracks {
				rows = append(rows, []string{
					strconv.Itoa(track.Index),
					textutil.FormatRangeMS(track.StartMS, track.EndMS),
					textutil.FormatClockMS(track.EndMS - track.StartMS),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Range", "Length"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Recording title (derived from the filename when empty)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Silence threshold in dBFS (0 estimates it from the recording)")
	cmd.Flags().IntVar(&startIndex, "start-index", 0, "First track number (0 uses the configured value)")
	return cmd
}
