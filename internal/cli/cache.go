package cli

import (
	"fmt"
	"os"

	"github.com/aigate-dev/aigate/internal/cache"
	"github.com/aigate-dev/aigate/internal/config"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the verdict cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show verdict cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		stats, err := c.GetStats()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Cache dir: %s\n", stats.Dir)
		fmt.Fprintf(os.Stdout, "Entries: %d (%d expired)\n", stats.Entries, stats.Expired)
		fmt.Fprintf(os.Stdout, "Total size: %d bytes\n", stats.TotalBytes)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached verdicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Cache cleared.")
		return nil
	},
}

func openCache() (*cache.Cache, error) {
	cfg, err := config.Load(nil)
	if err != nil {
		return nil, err
	}
	return cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
