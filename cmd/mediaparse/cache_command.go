package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mediaparse/internal/enrichment"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the Wikidata enrichment cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var showKeys bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show enrichment cache usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := loadCache(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printCacheStats(out, cache.Path(), cache.Stats())
			if showKeys {
				keys := cache.Keys()
				if len(keys) == 0 {
					fmt.Fprintln(out, "Cached lookups: none")
					return nil
				}
				fmt.Fprintln(out, "Cached lookups:")
				for _, key := range keys {
					match, _ := cache.Get(key)
					fmt.Fprintf(out, "  %s -> %s (%s, %d)\n", key, match.Title, match.WikidataID, match.Confidence)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showKeys, "keys", false, "List every cached lookup")
	return cmd
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove cache entries older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLockedCache(ctx, func(cache *enrichment.Cache) error {
				removed := cache.Prune()
				if err := cache.Save(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries (%d remaining)\n", removed, cache.Len())
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLockedCache(ctx, func(cache *enrichment.Cache) error {
				count := cache.Len()
				cache.Clear()
				if err := cache.Save(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries from %s\n", count, cache.Path())
				return nil
			})
		},
	}
}

func loadCache(ctx *commandContext) (*enrichment.Cache, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.logger()
	if err != nil {
		return nil, err
	}
	cache := enrichment.NewCache(afero.NewOsFs(), cfg.CachePath(), logger)
	if _, err := cache.Load(); err != nil {
		return nil, fmt.Errorf("load cache %s: %w", cache.Path(), err)
	}
	return cache, nil
}

func withLockedCache(ctx *commandContext, fn func(*enrichment.Cache) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	lock, err := enrichment.AcquireLock(cfg.Wikidata.CacheDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	cache, err := loadCache(ctx)
	if err != nil {
		return err
	}
	return fn(cache)
}

func printCacheStats(out io.Writer, path string, stats enrichment.CacheStats) {
	const stampLayout = "2006-01-02 15:04"
	stamp := func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format(stampLayout)
	}

	tw := table.NewWriter()
	tw.SetStyle(tableStyle(out))
	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRows([]table.Row{
		{"Path", path},
		{"Entries", stats.Entries},
		{"Expired", stats.Expired},
		{"Oldest", stamp(stats.Oldest)},
		{"Newest", stamp(stats.Newest)},
	})
	fmt.Fprintln(out, tw.Render())
}
