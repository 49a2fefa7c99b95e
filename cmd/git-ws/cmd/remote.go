package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/pkg/forgeresolve"
	"github.com/gizzahub/git-ws/pkg/manifest"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Add, list or remove [[remotes]] entries in the manifest",
}

var remoteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every declared remote",
	RunE:  runRemoteList,
}

var remoteAddCmd = &cobra.Command{
	Use:   "add <name> <url-base>",
	Short: "Declare a new remote",
	Args:  cobra.ExactArgs(2),
	RunE:  runRemoteAdd,
}

var remoteRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a declared remote",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemoteRemove,
}

var (
	remoteProbeKind    string
	remoteProbeBaseURL string
)

var remoteProbeCmd = &cobra.Command{
	Use:   "probe <owner/repo>",
	Short: "Resolve owner/repo against a forge API and print its canonical clone URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemoteProbe,
}

func init() {
	rootCmd.AddCommand(remoteCmd)
	remoteCmd.AddCommand(remoteListCmd, remoteAddCmd, remoteRemoveCmd, remoteProbeCmd)
	remoteProbeCmd.Flags().StringVar(&remoteProbeKind, "forge", "github", "forge kind: github, gitlab, or gitea")
	remoteProbeCmd.Flags().StringVar(&remoteProbeBaseURL, "base-url", "", "forge API base URL (required for gitea, optional self-hosted gitlab)")
}

func runRemoteProbe(cmd *cobra.Command, args []string) error {
	p, err := forgeresolve.Provider(forgeresolve.Kind(remoteProbeKind), remoteProbeBaseURL)
	if err != nil {
		return err
	}
	resolved, err := forgeresolve.Resolve(context.Background(), p, args[0])
	if err != nil {
		return err
	}
	fmt.Println(resolved.CloneURL)
	if !quiet {
		fmt.Printf("default branch: %s\n", resolved.DefaultBranch)
		if resolved.Description != "" {
			fmt.Printf("description: %s\n", resolved.Description)
		}
		if resolved.Archived {
			fmt.Println("archived: true")
		}
	}
	return nil
}

func runRemoteList(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	spec, err := o.GetManifestSpec(context.Background(), true)
	if err != nil {
		return err
	}
	for _, r := range spec.Remotes {
		fmt.Printf("%s = %s\n", r.Name, r.URLBase)
	}
	return nil
}

func runRemoteAdd(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	spec, err := o.GetManifestSpec(context.Background(), true)
	if err != nil {
		return err
	}

	name, urlBase := args[0], args[1]
	for i, r := range spec.Remotes {
		if r.Name == name {
			spec.Remotes[i].URLBase = urlBase
			return o.SaveManifestSpec(spec, true)
		}
	}
	spec.Remotes = append(spec.Remotes, manifest.Remote{Name: name, URLBase: urlBase})
	return o.SaveManifestSpec(spec, true)
}

func runRemoteRemove(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	spec, err := o.GetManifestSpec(context.Background(), true)
	if err != nil {
		return err
	}

	name := args[0]
	out := spec.Remotes[:0]
	for _, r := range spec.Remotes {
		if r.Name != name {
			out = append(out, r)
		}
	}
	spec.Remotes = out
	return o.SaveManifestSpec(spec, true)
}
