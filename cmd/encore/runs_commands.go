package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"encore/internal/segment"
	"encore/internal/store"
	"encore/internal/textutil"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect and manage the run history",
	}

	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsClearCommand(ctx))
	runsCmd.AddCommand(newRunsResetCommand(ctx))

	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var statusFilters []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past segmentation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []store.Status
			for _, raw := range statusFilters {
				status, ok := store.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q (known: %s)", raw, knownStatuses())
				}
				statuses = append(statuses, status)
			}

			return ctx.withStore(func(st *store.Store) error {
				runs, err := st.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						strconv.FormatInt(run.ID, 10),
						run.Title,
						string(run.Status),
						textutil.FormatClockMS(run.DurationMS),
						strconv.Itoa(run.TrackCount),
						run.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Title", "Status", "Length", "Tracks", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statusFilters, "status", nil, "Filter by status (repeatable)")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			return ctx.withStore(func(st *store.Store) error {
				run, err := st.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %d not found", id)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run #%d: %s\n", run.ID, run.Title)
				fmt.Fprintf(out, "  Source:    %s\n", run.SourcePath)
				fmt.Fprintf(out, "  Status:    %s\n", run.Status)
				fmt.Fprintf(out, "  Length:    %s\n", textutil.FormatClockMS(run.DurationMS))
				thresholdLabel := fmt.Sprintf("%.1f dBFS", run.ThresholdDB)
				if run.ThresholdAuto {
					thresholdLabel += " (estimated)"
				}
				fmt.Fprintf(out, "  Threshold: %s\n", thresholdLabel)
				fmt.Fprintf(out, "  Tracks:    %d\n", run.TrackCount)
				if run.OutputDir != "" {
					fmt.Fprintf(out, "  Output:    %s\n", run.OutputDir)
				}
				if run.ErrorMessage != "" {
					fmt.Fprintf(out, "  Error:     %s\n", run.ErrorMessage)
				}
				if run.NeedsReview {
					fmt.Fprintf(out, "  Review:    %s\n", run.ReviewReason)
				}

				if spans, err := decodeSpans(run.SpansJSON); err == nil && len(spans) > 0 {
					rows := make([][]string, 0, len(spans))
					for i, span := range spans {
						rows = append(rows, []string{
							strconv.Itoa(i + 1),
							textutil.FormatRangeMS(span.StartMS, span.EndMS),
							textutil.FormatClockMS(span.DurationMS()),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"#", "Range", "Length"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignRight},
					))
				}
				return nil
			})
		},
	}
}

func newRunsClearCommand(ctx *commandContext) *cobra.Command {
	var completedOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete runs from the history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				var (
					cleared int64
					err     error
				)
				if completedOnly {
					cleared, err = st.ClearCompleted(cmd.Context())
				} else {
					cleared, err = st.Clear(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d run(s)\n", cleared)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&completedOnly, "completed", false, "Only clear completed runs")
	return cmd
}

func newRunsResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Roll interrupted runs back to their last durable status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				reset, err := st.ResetProcessing(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d run(s)\n", reset)
				return nil
			})
		},
	}
}

func decodeSpans(raw string) ([]segment.Span, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var spans []segment.Span
	if err := json.Unmarshal([]byte(raw), &spans); err != nil {
		return nil, err
	}
	return spans, nil
}

func knownStatuses() string {
	statuses := store.AllStatuses()
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}
