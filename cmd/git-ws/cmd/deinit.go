package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/pkg/wizard"
)

var deinitYes bool

var deinitCmd = &cobra.Command{
	Use:   "deinit",
	Short: "Remove the workspace's .git-ws metadata, leaving clones untouched",
	RunE:  runDeinit,
}

func init() {
	rootCmd.AddCommand(deinitCmd)
	deinitCmd.Flags().BoolVarP(&deinitYes, "yes", "y", false, "skip the confirmation prompt")
}

func runDeinit(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}

	if !deinitYes && !quiet {
		ok, err := wizard.Confirm("Remove .git-ws metadata from this workspace?", false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	return o.Deinit()
}
