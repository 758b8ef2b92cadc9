package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reunite/internal/config"
	"reunite/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var (
		embed   bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "status [export-root]",
		Short: "Check readiness: directories, permissions, and external binaries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var results []preflight.Result
			if len(args) == 1 {
				root, err := config.ExpandPath(args[0])
				if err != nil {
					return fmt.Errorf("resolve export root: %w", err)
				}
				results = preflight.RunAll(cfg, root, embed || cfg.Embed.Enabled)
			} else {
				results = []preflight.Result{
					preflight.CheckDirectoryWritable("Log directory", cfg.Paths.LogDir),
					preflight.CheckDirectoryWritable("Report directory", cfg.Paths.ReportDir),
					preflight.CheckExiftool(cfg.Embed.ExiftoolBinary),
				}
			}

			if jsonOut {
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, res := range results {
				kind := statusOK
				if !res.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(res.Name, kind, res.Detail, colorize))
			}
			if !preflight.AllPassed(results) {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&embed, "embed", false, "Include the exiftool check even when embedding is disabled")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print check results as JSON")
	return cmd
}
