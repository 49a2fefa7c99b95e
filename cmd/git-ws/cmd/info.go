package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/internal/gwerrors"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print workspace metadata",
}

var infoMainPathCmd = &cobra.Command{
	Use:   "main-path",
	Short: "Print the workspace-relative path of the main project",
	RunE:  runInfoMainPath,
}

var infoFilerefsCmd = &cobra.Command{
	Use:   "filerefs",
	Short: "List every persisted workspace file reference",
	RunE:  runInfoFilerefs,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.AddCommand(infoMainPathCmd)
	infoCmd.AddCommand(infoFilerefsCmd)
}

func runInfoMainPath(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	if o.WS.Info.MainPath == "" {
		return gwerrors.ErrNoMain
	}
	fmt.Println(o.WS.Info.MainPath)
	return nil
}

func runInfoFilerefs(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	for _, ref := range o.WS.Info.FileRefs {
		fmt.Printf("%s: %s -> %s (%s)\n", ref.ProjectPath, ref.Src, ref.Dest, ref.Type)
	}
	return nil
}
