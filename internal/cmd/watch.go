package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jimezsa/govjobalert/internal/config"
	"github.com/jimezsa/govjobalert/internal/joblog"
	"github.com/jimezsa/govjobalert/internal/models"
	"github.com/jimezsa/govjobalert/internal/network"
	"github.com/jimezsa/govjobalert/internal/poll"
	"github.com/jimezsa/govjobalert/internal/scraper"
	"github.com/jimezsa/govjobalert/internal/seen"
)

const proxyBanDuration = 10 * time.Minute

// WatchOptions are shared by run and check.
type WatchOptions struct {
	LogFile   string        `help:"Path of the job log workbook." env:"GOVJOBALERT_LOG_FILE"`
	Timeout   time.Duration `help:"Per-page fetch timeout."`
	Proxies   string        `help:"Comma-separated proxy URLs." env:"GOVJOBALERT_PROXIES"`
	Rehydrate bool          `help:"Treat titles already in the log as seen at startup."`
}

// watchSetup is everything a poll loop needs, resolved from flags over
// the config file.
type watchSetup struct {
	sources  []models.Source
	fetcher  scraper.Fetcher
	workbook *joblog.Workbook
	tracker  *seen.Tracker
}

func newWatchSetup(ctx *Context, opts WatchOptions) (*watchSetup, error) {
	cfg := ctx.Config

	sources, err := cfg.EffectiveSources()
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout, err = cfg.TimeoutDuration()
		if err != nil {
			return nil, err
		}
	}

	fetcher, err := newFetcher(opts.Proxies, timeout)
	if err != nil {
		return nil, err
	}

	logFile := firstNonEmpty(opts.LogFile, cfg.LogFile)
	workbook := joblog.NewWorkbook(logFile, joblog.WithLogger(ctx.Logger))

	tracker := seen.NewTracker()
	if opts.Rehydrate || cfg.RehydrateSeen {
		titles, err := workbook.Titles()
		if err != nil {
			return nil, fmt.Errorf("rehydrate from %s: %w", workbook.Path(), err)
		}
		added := tracker.Seed(titles)
		ctx.Logger.Info().Int("titles", added).Str("log_file", workbook.Path()).Msg("seen set rehydrated")
	}

	return &watchSetup{
		sources:  sources,
		fetcher:  fetcher,
		workbook: workbook,
		tracker:  tracker,
	}, nil
}

func newFetcher(proxiesFlag string, timeout time.Duration) (*scraper.HTTPFetcher, error) {
	proxies, err := config.LoadProxies(proxiesFlag)
	if err != nil {
		return nil, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, proxyBanDuration)
		if err != nil {
			return nil, err
		}
	}

	client, err := network.NewClient(rotator, timeout)
	if err != nil {
		return nil, err
	}
	return scraper.NewHTTPFetcher(client, timeout), nil
}

func (w *watchSetup) loop(ctx *Context, sink poll.Sink, emitter poll.Emitter, interval time.Duration) (*poll.Loop, error) {
	return poll.New(poll.Config{
		Sources:  w.sources,
		Fetcher:  w.fetcher,
		Tracker:  w.tracker,
		Sink:     sink,
		Emitter:  emitter,
		Interval: interval,
		Logger:   ctx.Logger,
	})
}

func reportSourceFailures(ctx *Context, report poll.CycleReport) {
	if ctx == nil || ctx.UI == nil {
		return
	}
	if report.FailedSources() == 0 {
		return
	}

	ctx.UI.Warnf("\nSource errors:")
	for _, sr := range report.Sources {
		if sr.Err != nil {
			ctx.UI.Warnf("  %v", sr.Err)
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
