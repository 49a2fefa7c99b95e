package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/pkg/gitws"
)

var (
	tagMessage string
	tagForce   bool
)

var tagCmd = &cobra.Command{
	Use:   "tag <name>",
	Short: "Freeze every dependency revision into a pinned manifest and tag the main clone",
	Args:  cobra.ExactArgs(1),
	RunE:  runTag,
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.Flags().StringVarP(&tagMessage, "message", "m", "", "tag message")
	tagCmd.Flags().BoolVarP(&tagForce, "force", "f", false, "replace an existing tag of the same name")
}

func runTag(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	return o.Tag(context.Background(), gitws.TagOptions{
		Name:    args[0],
		Message: tagMessage,
		Force:   tagForce,
	})
}
