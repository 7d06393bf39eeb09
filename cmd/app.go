package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/1imo/rss-live/internal/cache"
	"github.com/1imo/rss-live/internal/config"
	"github.com/1imo/rss-live/internal/feed"
	"github.com/1imo/rss-live/internal/service"
	"github.com/1imo/rss-live/internal/tui"
	"github.com/spf13/cobra"
)

// buildService wires the configured store, cache and fetcher into a service.
// The returned closer releases the store; it is a no-op for the file backend.
func buildService() (*config.Config, *service.Service, func() error, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	store, closer, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	c := cache.New(store, cfg.CacheTTL(), cfg.MaxArticles())
	fetcher := feed.NewRSSFetcher(cfg.FetchTimeoutDuration(), cfg.MaxEntries())
	return cfg, service.New(cfg, c, fetcher), closer, nil
}

func openStore(cfg *config.Config) (cache.Store, func() error, error) {
	dir := cfg.CacheDir()
	switch cfg.Cache.Backend {
	case "sqlite":
		store, err := cache.OpenSQLiteStore(filepath.Join(dir, "cache.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening cache: %w", err)
		}
		return store, store.Close, nil
	default:
		return cache.NewFileStore(dir), func() error { return nil }, nil
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, svc, closer, err := buildService()
	if err != nil {
		return err
	}
	defer closer()

	if err := svc.Start(cmd.Context()); err != nil {
		return fmt.Errorf("starting refresh driver: %w", err)
	}
	defer svc.Stop()

	return tui.Run(cfg, svc)
}
