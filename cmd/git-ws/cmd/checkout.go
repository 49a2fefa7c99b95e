package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	checkoutGroupFilters []string
	checkoutForce        bool
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout [revision]",
	Short: "Check out a revision (or each project's own declared revision) across every clone",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheckout,
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
	checkoutCmd.Flags().StringArrayVarP(&checkoutGroupFilters, "group-filters", "G", nil, "additional group-filter clause")
	checkoutCmd.Flags().BoolVarP(&checkoutForce, "force", "f", false, "discard local changes")
}

func runCheckout(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	var revision string
	if len(args) == 1 {
		revision = args[0]
	}
	results := o.Checkout(context.Background(), checkoutGroupFilters, revision, checkoutForce)
	var failed bool
	for _, r := range results {
		if r.Err != nil {
			failed = true
			fmt.Printf("%s: error: %v\n", r.Project.Path, r.Err)
		}
	}
	if failed {
		return fmt.Errorf("checkout failed in one or more clones")
	}
	return nil
}
