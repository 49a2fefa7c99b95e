package cmd

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/pkg/gitws"
	"github.com/gizzahub/git-ws/pkg/wizard"
)

var (
	initMainPath     string
	initManifestPath string
	initGroupFilters []string
	initDepth        int
	initForce        bool
	initInteractive  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Designate the current directory as a new workspace",
	Long: `Designate the current directory as a new workspace root.

If --main-path is not given, git-ws detects whether the current directory
is itself a git clone and, if so, treats it as the main project.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initMainPath, "main-path", "", "main project's path, relative to the workspace root")
	initCmd.Flags().StringVar(&initManifestPath, "manifest-path", "", "manifest file name, relative to the main project (default git-ws.toml)")
	initCmd.Flags().StringArrayVarP(&initGroupFilters, "group-filters", "G", nil, "group-filter clause (e.g. +test, -doc@path)")
	initCmd.Flags().IntVar(&initDepth, "depth", 0, "default shallow-clone depth for dependencies (0 = full history)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "initialize even if the directory is not empty")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "prompt for init options instead of reading flags")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	opts := gitws.InitOptions{
		MainPath:     initMainPath,
		ManifestPath: initManifestPath,
		GroupFilters: initGroupFilters,
		Depth:        initDepth,
		Force:        initForce,
	}

	if initInteractive {
		detected := ""
		if _, err := os.Stat(filepath.Join(cwd, ".git")); err == nil {
			detected = "."
		}
		answers, err := wizard.NewInitWizard().Run(detected)
		if err != nil {
			return err
		}
		opts.MainPath = answers.MainPath
		opts.ManifestPath = answers.ManifestPath
		opts.GroupFilters = answers.GroupFilters
		if answers.Depth != "" {
			opts.Depth, _ = strconv.Atoi(answers.Depth)
		}
	}

	_, err = gitws.Init(cwd, opts, gitws.WithLogger(logger()))
	return err
}
