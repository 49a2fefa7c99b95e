package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	addForce bool
	addAll   bool
)

var addCmd = &cobra.Command{
	Use:   "add [path...]",
	Short: "Stage paths within the clone that owns them",
	RunE:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().BoolVarP(&addForce, "force", "f", false, "allow adding otherwise ignored files")
	addCmd.Flags().BoolVarP(&addAll, "all", "A", false, "stage every change in every selected clone")
}

func runAdd(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	return o.Add(context.Background(), args, addForce, addAll)
}
