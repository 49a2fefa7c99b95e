package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/pkg/gitws"
)

var (
	updateGroupFilters []string
	updateRebase       bool
	updateForce        bool
	updatePrune        bool
	updateSkipMain     bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Clone missing dependencies and bring every clone to its declared revision",
	RunE:  runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringArrayVarP(&updateGroupFilters, "group-filters", "G", nil, "additional group-filter clause")
	updateCmd.Flags().BoolVar(&updateRebase, "rebase", false, "rebase checked-out branches onto their upstream instead of merging")
	updateCmd.Flags().BoolVarP(&updateForce, "force", "f", false, "overwrite local changes and modified file references")
	updateCmd.Flags().BoolVar(&updatePrune, "prune", false, "remove workspace entries nothing declares any more")
	updateCmd.Flags().BoolVar(&updateSkipMain, "skip-main", false, "don't touch the main project")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	report, err := o.Update(context.Background(), gitws.UpdateOptions{
		GroupFilters: updateGroupFilters,
		Rebase:       updateRebase,
		Force:        updateForce,
		Prune:        updatePrune,
		SkipMain:     updateSkipMain,
	})
	if report != nil && !quiet {
		for _, p := range report.Cloned {
			fmt.Printf("cloned   %s\n", p)
		}
		for _, p := range report.Pruned {
			fmt.Printf("pruned   %s\n", p)
		}
		for _, c := range report.Conflicts {
			fmt.Printf("warning: %v\n", c)
		}
	}
	return err
}
