package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var diffGroupFilters []string

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show a diffstat across every clone in the workspace",
	RunE:  runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().StringArrayVarP(&diffGroupFilters, "group-filters", "G", nil, "additional group-filter clause")
}

func runDiff(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	byProject, err := o.Diff(context.Background(), diffGroupFilters)
	if err != nil {
		return err
	}
	for path, stats := range byProject {
		if len(stats) == 0 {
			continue
		}
		fmt.Printf("%s:\n", path)
		for _, s := range stats {
			if s.IsBinary {
				fmt.Printf("  %s | Bin\n", s.Path)
				continue
			}
			fmt.Printf("  %s | +%d -%d\n", s.Path, s.Added, s.Deleted)
		}
	}
	return nil
}
