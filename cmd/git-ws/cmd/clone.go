package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/pkg/gitws"
)

var (
	cloneRevision     string
	cloneDepth        int
	cloneMainPath     string
	cloneManifestPath string
	cloneGroupFilters []string
	cloneForce        bool
	cloneUpdate       bool
)

var cloneCmd = &cobra.Command{
	Use:   "clone <url>",
	Short: "Clone a main project and initialize a workspace around it",
	Args:  cobra.ExactArgs(1),
	RunE:  runClone,
}

func init() {
	rootCmd.AddCommand(cloneCmd)
	cloneCmd.Flags().StringVar(&cloneRevision, "revision", "", "revision (branch, tag, or SHA) to check out")
	cloneCmd.Flags().IntVar(&cloneDepth, "depth", 0, "shallow-clone depth (0 = full history)")
	cloneCmd.Flags().StringVar(&cloneMainPath, "main-path", "", "override the default cwd/<repo-name>/<repo-name> main path")
	cloneCmd.Flags().StringVar(&cloneManifestPath, "manifest-path", "", "manifest file name, relative to the main project")
	cloneCmd.Flags().StringArrayVarP(&cloneGroupFilters, "group-filters", "G", nil, "group-filter clause (e.g. +test, -doc@path)")
	cloneCmd.Flags().BoolVarP(&cloneForce, "force", "f", false, "clone even if the target directory is not empty")
	cloneCmd.Flags().BoolVar(&cloneUpdate, "update", false, "run update immediately after cloning")
}

func runClone(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	o, err := gitws.Clone(ctx, cwd, gitws.CloneOptions{
		URL:          args[0],
		Revision:     cloneRevision,
		Depth:        cloneDepth,
		MainPath:     cloneMainPath,
		ManifestPath: cloneManifestPath,
		GroupFilters: cloneGroupFilters,
		Force:        cloneForce,
	}, gitws.WithLogger(logger()))
	if err != nil {
		return err
	}

	if !cloneUpdate {
		return nil
	}
	_, err = o.Update(ctx, gitws.UpdateOptions{GroupFilters: cloneGroupFilters})
	return err
}
