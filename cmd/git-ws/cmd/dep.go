package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/pkg/gitws"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Inspect and maintain manifest dependency entries",
}

var depUpdateURLCmd = &cobra.Command{
	Use:   "update-url",
	Short: "Rewrite each dependency's URL to match its clone's current origin",
	RunE:  runDepUpdateURL,
}

var depListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every resolved dependency as a table",
	RunE:  runDepList,
}

var depTreeGroupFilters []string

var depTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Render the dependency graph as a plain-text tree",
	RunE:  runDepTree,
}

var depDotCmd = &cobra.Command{
	Use:   "dot",
	Short: "Render the dependency graph as a Graphviz DOT document",
	RunE:  runDepDot,
}

func init() {
	rootCmd.AddCommand(depCmd)
	depCmd.AddCommand(depUpdateURLCmd, depListCmd, depTreeCmd, depDotCmd)
	depTreeCmd.Flags().StringArrayVarP(&depTreeGroupFilters, "group-filters", "G", nil, "additional group-filter clause")
	depDotCmd.Flags().StringArrayVarP(&depTreeGroupFilters, "group-filters", "G", nil, "additional group-filter clause")
}

func runDepList(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	projects, err := o.Projects(nil, false)
	if err != nil {
		return err
	}
	for _, p := range projects {
		fmt.Printf("%-30s %-12s %s\n", p.Path, p.Revision, p.URL)
	}
	return nil
}

func runDepTree(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	graph, err := o.DependencyGraph(depTreeGroupFilters, false)
	if err != nil {
		return err
	}
	printTree(graph)
	return nil
}

func printTree(graph gitws.DependencyGraph) {
	children := map[string][]string{}
	for _, e := range graph.Edges {
		children[e.Parent] = append(children[e.Parent], e.Child)
	}

	var root string
	if len(graph.Levels) > 0 && len(graph.Levels[0]) > 0 && graph.Levels[0][0].IsMain {
		root = graph.Levels[0][0].Path
	}

	var walk func(path string, depth int)
	walk = func(path string, depth int) {
		label := path
		if label == "" {
			label = "."
		}
		fmt.Printf("%s%s\n", indent(depth), label)
		for _, child := range children[path] {
			walk(child, depth+1)
		}
	}
	walk(root, 0)
}

func indent(depth int) string {
	out := ""
	for i := 0; i < depth; i++ {
		out += "  "
	}
	return out
}

func runDepDot(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	graph, err := o.DependencyGraph(depTreeGroupFilters, false)
	if err != nil {
		return err
	}

	fmt.Println("digraph git_ws {")
	for _, e := range graph.Edges {
		parent, child := e.Parent, e.Child
		if parent == "" {
			parent = "."
		}
		fmt.Printf("  %q -> %q;\n", parent, child)
	}
	fmt.Println("}")
	return nil
}

func runDepUpdateURL(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	changed, err := o.SyncDependencyURLs(context.Background())
	if err != nil {
		return err
	}
	if !quiet {
		for _, path := range changed {
			fmt.Printf("updated url for %s\n", path)
		}
	}
	return nil
}
