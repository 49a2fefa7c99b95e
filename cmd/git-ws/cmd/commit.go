package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	commitMessage string
	commitAll     bool
)

var commitCmd = &cobra.Command{
	Use:   "commit <path>",
	Short: "Commit staged (or, with --all, every tracked) change in the clone owning path",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommit,
}

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message")
	commitCmd.Flags().BoolVarP(&commitAll, "all", "a", false, "commit every tracked change, not just what's staged")
	_ = commitCmd.MarkFlagRequired("message")
}

func runCommit(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	return o.Commit(context.Background(), args[0], commitMessage, commitAll)
}
