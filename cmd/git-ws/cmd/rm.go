package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	rmCached    bool
	rmForce     bool
	rmRecursive bool
)

var rmCmd = &cobra.Command{
	Use:   "rm path...",
	Short: "Remove paths from the index (and optionally the working tree) of their owning clone",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().BoolVar(&rmCached, "cached", false, "unstage only, keep the working-tree file")
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "remove even with local modifications")
	rmCmd.Flags().BoolVarP(&rmRecursive, "recursive", "r", false, "remove directories recursively")
}

func runRm(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	return o.Rm(context.Background(), args, rmCached, rmForce, rmRecursive)
}
