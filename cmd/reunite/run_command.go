package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reunite/internal/config"
	"reunite/internal/executor"
	"reunite/internal/logging"
	"reunite/internal/preflight"
	"reunite/internal/report"
	"reunite/internal/services/exiftool"
	"reunite/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		dryRun     bool
		embed      bool
		backup     bool
		workers    int
		preAnalyze bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "run <export-root>",
		Short: "Reconcile media files with their sidecars under a directory tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve export root: %w", err)
			}

			opts := workflow.Options{
				DryRun:     dryRun,
				Embed:      cfg.Embed.Enabled,
				Backup:     cfg.Embed.Backup,
				Workers:    cfg.Workflow.Workers,
				PreAnalyze: cfg.Workflow.PreAnalyze,
			}
			if cmd.Flags().Changed("embed") {
				opts.Embed = embed
			}
			if cmd.Flags().Changed("backup") {
				opts.Backup = backup
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}
			if cmd.Flags().Changed("pre-analyze") {
				opts.PreAnalyze = preAnalyze
			}

			results := preflight.RunAll(cfg, root, opts.Embed && !opts.DryRun)
			if !preflight.AllPassed(results) {
				out := cmd.ErrOrStderr()
				colorize := shouldColorize(out)
				for _, res := range results {
					kind := statusOK
					if !res.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(res.Name, kind, res.Detail, colorize))
				}
				return fmt.Errorf("preflight checks failed")
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			var tool executor.MetadataTool
			if opts.Embed && !opts.DryRun {
				client, err := exiftool.New(exiftool.WithBinary(cfg.Embed.ExiftoolBinary))
				if err != nil {
					return fmt.Errorf("start exiftool: %w", err)
				}
				defer func() { _ = client.Close() }()
				tool = client
			}

			store, err := report.Open(cfg.ReportDBPath())
			if err != nil {
				return fmt.Errorf("open report store: %w", err)
			}
			defer func() { _ = store.Close() }()

			runner := workflow.New(cfg, store, tool, logger)
			summary, err := runner.Run(cmd.Context(), root, opts)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, summary)
			}
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would change without touching any file")
	cmd.Flags().BoolVar(&embed, "embed", false, "Embed sidecar metadata into media files after renaming")
	cmd.Flags().BoolVar(&backup, "backup", false, "Keep a *_original copy before the first embed")
	cmd.Flags().IntVar(&workers, "workers", 0, "Directories processed concurrently (0 = CPU count)")
	cmd.Flags().BoolVar(&preAnalyze, "pre-analyze", false, "Derive matcher tuning from the export before matching")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the run summary as JSON")
	return cmd
}

func printSummary(cmd *cobra.Command, summary *workflow.Summary) {
	mode := "applied"
	if summary.DryRun {
		mode = "dry run"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s) finished in %s\n", summary.RunID, mode, summary.Duration.Round(time.Millisecond))

	rows := [][]string{
		{"Directories", strconv.FormatInt(summary.Totals.Directories, 10)},
		{"Media files", strconv.FormatInt(summary.Totals.MediaFiles, 10)},
		{"Matched", strconv.FormatInt(summary.Totals.Matched, 10)},
		{"Unmatched", strconv.FormatInt(summary.Totals.Unmatched, 10)},
		{"Conflicts", strconv.FormatInt(summary.Totals.Conflicts, 10)},
		{"Renamed", strconv.FormatInt(summary.Totals.Renamed, 10)},
		{"Embedded", strconv.FormatInt(summary.Totals.Embedded, 10)},
		{"Verified", strconv.FormatInt(summary.Totals.Verified, 10)},
		{"Errors", strconv.FormatInt(summary.Totals.Errors, 10)},
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
}
