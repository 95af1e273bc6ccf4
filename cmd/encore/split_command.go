package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"encore/internal/pipeline"
	"encore/internal/store"
	"encore/internal/textutil"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var title string
	var threshold float64
	var startIndex int

	cmd := &cobra.Command{
		Use:   "split <recording.wav>",
		Short: "Split a recording into individual song tracks",
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

			return ctx.withStore(func(st *store.Store) error {
				runner := pipeline.NewRunner(cfg, st, logger)
				result, err := runner.Run(cmd.Context(), pipeline.Options{
					SourcePath:  args[0],
					Title:       title,
					ThresholdDB: threshold,
					StartIndex:  startIndex,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				run := result.Run
				thresholdLabel := fmt.Sprintf("%.1f dBFS", run.ThresholdDB)
				if run.ThresholdAuto {
					thresholdLabel += " (estimated)"
				}
				fmt.Fprintf(out, "Split %s (%s) into %d tracks using threshold %s\n",
					run.Title, textutil.FormatClockMS(run.DurationMS), run.TrackCount, thresholdLabel)

				rows := make([][]string, 0, len(result.Tracks))
				for _, track := range result.Tracks {
					rows = append(rows, []string{
						strconv.Itoa(track.Index),
						textutil.FormatRangeMS(track.StartMS, track.EndMS),
						textutil.FormatClockMS(track.EndMS - track.StartMS),
						track.Path,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Range", "Length", "File"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Recording title (derived from the filename when empty)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Silence threshold in dBFS (0 estimates it from the recording)")
	cmd.Flags().IntVar(&startIndex, "start-index", 0, "First track number (0 uses the configured value)")
	return cmd
}
