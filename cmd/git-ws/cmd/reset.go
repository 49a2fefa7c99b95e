package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset [path...]",
	Short: "Unstage paths within their owning clone, leaving the working tree untouched",
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	return o.Reset(context.Background(), args)
}
