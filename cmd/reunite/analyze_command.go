package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reunite/internal/config"
	"reunite/internal/tuning"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "analyze <export-root>",
		Short: "Sample an export tree and show the derived matcher tuning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve export root: %w", err)
			}

			analysis, err := tuning.Analyze(root)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, analysis)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %d directories, %d sidecars, %d sampled names\n",
				analysis.Directories, analysis.Sidecars, analysis.SampledNames)
			fmt.Fprintf(out, "Name length: mean %.1f, median %.1f\n",
				analysis.AverageNameLength, analysis.MedianNameLength)
			fmt.Fprintf(out, "Derived tuning: min_prefix_factor=%.2f truncation_step_divisor=%d suffix_variants=%d\n",
				analysis.Parameters.MinPrefixFactor,
				analysis.Parameters.TruncationStepDivisor,
				len(analysis.Parameters.SuffixVariants))

			if len(analysis.Suffixes) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(analysis.Suffixes))
			for _, sc := range analysis.Suffixes {
				rows = append(rows, []string{sc.Suffix, strconv.Itoa(sc.Count)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Sidecar suffix", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the analysis as JSON")
	return cmd
}
