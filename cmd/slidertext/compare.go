package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slidertext/pkg/visualtest"
)

var (
	compareTolerance int
	compareFuzz      int
	compareDiff      string
)

var compareCmd = &cobra.Command{
	Use:   "compare <actual.png> <expected.png>",
	Short: "Compare a rendered frame against a reference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := visualtest.Options{
			Tolerance:   compareTolerance,
			FuzzyRadius: compareFuzz,
			Diff:        compareDiff != "",
		}
		res, err := visualtest.CompareFiles(args[0], args[1], opts)
		if err != nil {
			return err
		}
		if res.Match {
			fmt.Fprintf(cmd.OutOrStdout(), "match (max channel difference %d)\n", res.MaxDifference)
			return nil
		}
		if res.Diff != nil {
			if err := visualtest.SavePNG(res.Diff, compareDiff); err != nil {
				return err
			}
		}
		return fmt.Errorf("%d of %d pixels differ", res.DifferentPixels, res.TotalPixels)
	},
}

func init() {
	compareCmd.Flags().IntVar(&compareTolerance, "tolerance", 2, "Largest per-channel difference counted as equal")
	compareCmd.Flags().IntVar(&compareFuzz, "fuzz", 0, "Match pixels within this radius")
	compareCmd.Flags().StringVar(&compareDiff, "diff", "", "Write a diff image here when frames differ")
	rootCmd.AddCommand(compareCmd)
}
