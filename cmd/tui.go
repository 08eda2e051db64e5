package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/subnews/internal/config"
	"github.com/matheuskafuri/subnews/internal/history"
	"github.com/matheuskafuri/subnews/internal/logging"
	"github.com/matheuskafuri/subnews/internal/reddit"
	"github.com/matheuskafuri/subnews/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(config.LogPath(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer log.Sync()

	store, err := history.Open(config.HistoryPath())
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	maintainHistory(store, cfg.RetentionDuration(), log)

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}

	initial := initialQuery(flagSubreddit, store, cfg, log)
	log.Infow("starting", "version", version, "source", cfg.Source, "initial", initial)

	return tui.Run(tui.RunOpts{
		Fetcher:      fetcher,
		Recorder:     store,
		Logger:       log,
		Debounce:     cfg.DebounceDuration(),
		CopyFeedback: cfg.CopyFeedbackDuration(),
		Initial:      initial,
	})
}

// historyMaintainer is satisfied by *history.Store.
type historyMaintainer interface {
	SetLastOpened() error
	Prune(maxAge time.Duration) (int64, error)
}

// maintainHistory stamps the launch time and drops entries past retention.
// Failures are logged; the view works without history.
func maintainHistory(h historyMaintainer, retention time.Duration, log *zap.SugaredLogger) {
	if err := h.SetLastOpened(); err != nil {
		log.Warnw("recording last opened failed", "error", err)
	}
	n, err := h.Prune(retention)
	if err != nil {
		log.Warnw("auto-prune failed", "deleted", n, "error", err)
		return
	}
	if n > 0 {
		log.Debugw("pruned history", "deleted", n)
	}
}

func newFetcher(cfg *config.Config) (reddit.Fetcher, error) {
	f, err := reddit.NewFetcher(cfg.Source, reddit.Options{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.TimeoutDuration(),
		Limit:     cfg.Limit,
		CacheTTL:  cfg.CacheTTLDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("building fetcher: %w", err)
	}
	return f, nil
}

// lastQuerier is satisfied by *history.Store.
type lastQuerier interface {
	LastSubreddit() (string, error)
}

// initialQuery picks the subreddit to open: the flag, then the last
// successful query, then the configured default.
func initialQuery(flag string, h lastQuerier, cfg *config.Config, log *zap.SugaredLogger) string {
	if s := strings.TrimSpace(flag); s != "" {
		return s
	}
	if h != nil {
		last, err := h.LastSubreddit()
		if err != nil {
			log.Warnw("reading last subreddit", "error", err)
		} else if last != "" {
			return last
		}
	}
	return cfg.DefaultSubreddit
}
