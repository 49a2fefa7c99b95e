// Package cmd implements the CLI commands for git-ws.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/internal/secho"
	"github.com/gizzahub/git-ws/pkg/gitws"
)

var (
	appVersion string

	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "git-ws",
	Short: "Multi-repository workspace orchestrator",
	Long: `git-ws manages a workspace of related git clones described by a
manifest: cloning dependencies, keeping them at their declared revisions,
materializing shared files, and freezing a workspace to a reproducible tag.`,
	Version: appVersion,
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main().
func Execute(version string) {
	appVersion = version
	rootCmd.Version = version
	applySilenceRecursive(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func applySilenceRecursive(cmd *cobra.Command) {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	for _, c := range cmd.Commands() {
		applySilenceRecursive(c)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")
}

// logger builds the secho.Func every command's Orchestrator is wired with,
// reflecting the persistent --verbose/--quiet flags.
func logger() secho.Func {
	l := secho.New()
	l.Verbose = verbose
	l.Quiet = quiet
	return l.Log
}

// open locates and loads the workspace containing the current directory.
func open() (*gitws.Orchestrator, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return gitws.Open(cwd, gitws.WithLogger(logger()))
}
