package cmd

import (
	"fmt"
	"time"

	"github.com/1imo/rss-live/internal/cache"
	"github.com/1imo/rss-live/internal/config"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch all feeds now and update the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, svc, closer, err := buildService()
		if err != nil {
			return err
		}
		defer closer()

		fmt.Println("Fetching feeds...")
		articles, err := svc.Refresh(cmd.Context(), true)
		if err != nil {
			return fmt.Errorf("refreshing: %w", err)
		}

		for _, st := range svc.CacheInfo().Feeds {
			if st.Error != "" {
				fmt.Printf("  [warn] %s: %s\n", st.Source, st.Error)
				continue
			}
			fmt.Printf("  %s: %d article(s)\n", st.Source, st.Count)
		}
		fmt.Printf("Cached %d article(s).\n", len(articles))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, svc, closer, err := buildService()
		if err != nil {
			return err
		}
		defer closer()

		info := svc.CacheInfo()
		fmt.Printf("Cache: %s\n", cfg.CacheDir())
		if !info.Exists {
			fmt.Println("Articles: none cached")
			return nil
		}
		fmt.Printf("Articles: %d\n", info.Count)
		fmt.Printf("Size: %s\n", formatBytes(info.SizeBytes))
		fmt.Printf("Updated: %s ago", formatAge(time.Since(info.LastUpdated)))
		if info.Expired {
			fmt.Print(" (expired)")
		}
		fmt.Println()
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		store, closer, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closer()

		c := cache.New(store, cfg.CacheTTL(), cfg.MaxArticles())
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
