package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/gizzahub/git-ws/pkg/gitvcs"
	"github.com/gizzahub/git-ws/pkg/gitws"
)

var (
	watchGroupFilters []string
	watchDebounce     time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch every selected clone's working tree and print status changes as they happen",
	Long: `Watch blocks, printing a git-status snapshot for a clone each time its
working tree changes, until interrupted with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringArrayVarP(&watchGroupFilters, "group-filters", "G", nil, "additional group-filter clause")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "minimum time between status checks for the same clone")
}

func runWatch(cmd *cobra.Command, args []string) error {
	o, err := open()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !quiet {
		fmt.Println("watching for changes, press Ctrl-C to stop")
	}

	err = o.Watch(ctx, gitws.WatchOptions{
		GroupFilters: watchGroupFilters,
		Debounce:     watchDebounce,
	}, func(ev gitws.WatchEvent) {
		if ev.Path == "" {
			if ev.Err != nil {
				fmt.Printf("error: %v\n", ev.Err)
			}
			return
		}
		if ev.Err != nil {
			fmt.Printf("%s: error: %v\n", ev.Path, ev.Err)
			return
		}
		if len(ev.Entries) == 0 {
			fmt.Printf("%s: clean\n", ev.Path)
			return
		}
		fmt.Printf("%s:\n", ev.Path)
		for _, e := range ev.Entries {
			switch v := e.(type) {
			case gitvcs.BranchStatus:
				fmt.Printf("  ## %s...%s [+%d -%d]\n", v.Branch, v.Upstream, v.Ahead, v.Behind)
			case gitvcs.FileStatus:
				fmt.Printf("  %c%c %s\n", v.Index.Byte(), v.Work.Byte(), v.Path)
			}
		}
	})
	if err == context.Canceled {
		return nil
	}
	return err
}
