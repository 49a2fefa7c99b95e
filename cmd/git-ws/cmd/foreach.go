package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/pkg/clone"
)

var foreachGroupFilters []string

var foreachCmd = &cobra.Command{
	Use:   "foreach -- command [args...]",
	Short: "Run an arbitrary command in every selected clone's working directory",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runForeach,
}

func init() {
	rootCmd.AddCommand(foreachCmd)
	foreachCmd.Flags().StringArrayVarP(&foreachGroupFilters, "group-filters", "G", nil, "additional group-filter clause")
}

func runForeach(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}

	results := o.Foreach(context.Background(), foreachGroupFilters, func(ctx context.Context, c *clone.Clone) error {
		fmt.Printf("# %s\n", c.Project.Path)
		run := exec.CommandContext(ctx, args[0], args[1:]...)
		run.Dir = c.Git.Path()
		run.Stdout = os.Stdout
		run.Stderr = os.Stderr
		return run.Run()
	})

	var failed bool
	for _, r := range results {
		if r.Err != nil {
			failed = true
			fmt.Printf("%s: error: %v\n", r.Project.Path, r.Err)
		}
	}
	if failed {
		return fmt.Errorf("foreach failed in one or more clones")
	}
	return nil
}
