package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/pkg/workspace"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get, set or list the workspace's .git-ws/config.toml options",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every resolved config option",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <option>",
	Short: "Print one resolved config option",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <option> <value>",
	Short: "Persist one option into the workspace's config.toml",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd, configGetCmd, configSetCmd)
}

func runConfigList(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	for _, kv := range configEntries(o.WS.Config) {
		fmt.Printf("%s = %s\n", kv[0], kv[1])
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}
	for _, kv := range configEntries(o.WS.Config) {
		if kv[0] == args[0] {
			fmt.Println(kv[1])
			return nil
		}
	}
	return fmt.Errorf("unknown config option %q", args[0])
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}

	switch args[0] {
	case "manifest-path":
		o.WS.Config.ManifestPath = args[1]
	case "color-ui":
		b, err := strconv.ParseBool(args[1])
		if err != nil {
			return err
		}
		o.WS.Config.ColorUI = b
	case "group-filters":
		o.WS.Config.GroupFilters = splitTrim(args[1], ",")
	case "clone-cache":
		o.WS.Config.CloneCache = args[1]
	case "depth":
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		o.WS.Config.Depth = n
	default:
		return fmt.Errorf("unknown config option %q", args[0])
	}

	return o.WS.SaveConfig()
}

func configEntries(cfg workspace.Config) [][2]string {
	return [][2]string{
		{"manifest-path", cfg.ManifestPath},
		{"color-ui", strconv.FormatBool(cfg.ColorUI)},
		{"group-filters", strings.Join(cfg.GroupFilters, ",")},
		{"clone-cache", cfg.CloneCache},
		{"depth", strconv.Itoa(cfg.Depth)},
	}
}

func splitTrim(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
