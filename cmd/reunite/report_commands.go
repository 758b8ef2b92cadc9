package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reunite/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect past reconciliation runs",
	}

	reportCmd.AddCommand(newReportListCommand(ctx))
	reportCmd.AddCommand(newReportShowCommand(ctx))
	return reportCmd
}

func (c *commandContext) withStore(fn func(*report.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := report.Open(cfg.ReportDBPath())
	if err != nil {
		return fmt.Errorf("open report store: %w", err)
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

func newReportListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *report.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, runs)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID,
						run.StartedAt.Local().Format(time.RFC3339),
						run.Root,
						yesNo(run.DryRun),
						strconv.FormatInt(run.Totals.Matched, 10),
						strconv.FormatInt(run.Totals.Unmatched, 10),
						strconv.FormatInt(run.Totals.Conflicts, 10),
						strconv.FormatInt(run.Totals.Errors, 10),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Started", "Root", "Dry run", "Matched", "Unmatched", "Conflicts", "Errors"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show (0 = all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print runs as JSON")
	return cmd
}

func newReportShowCommand(ctx *commandContext) *cobra.Command {
	var (
		kinds   []string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the per-file outcomes of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *report.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				outcomes, err := store.RunOutcomes(cmd.Context(), run.ID, kinds...)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, struct {
						Run      *report.Run       `json:"run"`
						Outcomes []*report.Outcome `json:"outcomes"`
					}{run, outcomes})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s on %s (dry run: %s)\n", run.ID, run.Root, yesNo(run.DryRun))
				if len(outcomes) == 0 {
					fmt.Fprintln(out, "No outcomes recorded")
					return nil
				}
				rows := make([][]string, 0, len(outcomes))
				for _, o := range outcomes {
					rows = append(rows, []string{
						o.MediaPath,
						o.Kind,
						o.SidecarPath,
						yesNo(o.Renamed),
						yesNo(o.Embedded),
						o.Error,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Media", "Outcome", "Sidecar", "Renamed", "Embedded", "Error"},
					rows,
					nil))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Filter outcomes by kind (matched, no_match, conflict)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print outcomes as JSON")
	return cmd
}
