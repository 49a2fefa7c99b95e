package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/pkg/gitvcs"
)

var statusGroupFilters []string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show git status across every clone in the workspace",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringArrayVarP(&statusGroupFilters, "group-filters", "G", nil, "additional group-filter clause")
}

func runStatus(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	results, err := o.Status(context.Background(), statusGroupFilters)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%s: error: %v\n", r.Project.Path, r.Err)
			continue
		}
		if len(r.Entries) == 0 {
			continue
		}
		fmt.Printf("%s:\n", r.Project.Path)
		for _, e := range r.Entries {
			switch v := e.(type) {
			case gitvcs.BranchStatus:
				fmt.Printf("  ## %s...%s [+%d -%d]\n", v.Branch, v.Upstream, v.Ahead, v.Behind)
			case gitvcs.FileStatus:
				fmt.Printf("  %c%c %s\n", v.Index.Byte(), v.Work.Byte(), v.Path)
			}
		}
	}
	return nil
}
