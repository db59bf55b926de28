package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"newsfeed/internal/config"
	"newsfeed/internal/library"
	"newsfeed/internal/logger"
	"newsfeed/internal/ratelimit"
	"newsfeed/internal/reader"
	"newsfeed/internal/store"
	"newsfeed/internal/ui"
)

var (
	flagConfig   string
	flagProxy    string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "newsreader",
	Short: "Terminal news reader",
	Long:  "newsreader browses headlines and searches news through the newsfeed proxy, with local bookmarks and history.",
	RunE:  runBrowse,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetupWriter(os.Stderr, flagLogLevel, "console")
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagProxy, "proxy", "", "proxy URL (overrides proxy_url)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(headlinesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(stocksCmd)
	rootCmd.AddCommand(bookmarksCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(themeCmd)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// session holds everything a command needs. Close releases the store.
type session struct {
	cfg    *config.Reader
	store  store.Store
	client *reader.Client
	marks  *library.Bookmarks
	recent *library.RecentlyViewed
	prefs  *library.Preferences
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.LoadReader(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagProxy != "" {
		cfg.ProxyURL = flagProxy
	}

	s, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	client, err := reader.NewClient(reader.Options{
		ProxyURL: cfg.ProxyURL,
		Limiter:  ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimitWindow(), nil),
		PageSize: cfg.PageSize,
		Country:  cfg.Country,
		Timeout:  cfg.RequestTimeoutDuration(),
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	marks, err := library.LoadBookmarks(ctx, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	recent, err := library.LoadRecentlyViewed(ctx, s, nil)
	if err != nil {
		s.Close()
		return nil, err
	}

	return &session{
		cfg:    cfg,
		store:  s,
		client: client,
		marks:  marks,
		recent: recent,
		prefs:  library.NewPreferences(s),
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		log.Warn().Err(err).Msg("Closing store")
	}
}

func (s *session) theme(ctx context.Context) ui.Theme {
	dark, err := s.prefs.DarkMode(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Reading theme preference")
	}
	return ui.ThemeFor(dark)
}
