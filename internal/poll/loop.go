// Package poll drives the scrape cycle: fetch every source, keep the
// postings the tracker has not seen, log them and hand them to the
// notifier, then sleep.
package poll

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jimezsa/govjobalert/internal/models"
	"github.com/jimezsa/govjobalert/internal/scraper"
	"github.com/jimezsa/govjobalert/internal/seen"
	"github.com/rs/zerolog"
)

const DefaultInterval = 5 * time.Minute

type State int32

const (
	StateScanning State = iota
	StateIdle
)

func (s State) String() string {
	if s == StateIdle {
		return "idle"
	}
	return "scanning"
}

// Sink persists log records.
type Sink interface {
	Append(ctx context.Context, rec models.Record) error
}

// Emitter hands a new posting to the presentation side without waiting
// for the user.
type Emitter interface {
	Publish(ctx context.Context, p models.Posting) error
}

type Config struct {
	Sources  []models.Source
	Fetcher  scraper.Fetcher
	Tracker  *seen.Tracker
	Sink     Sink
	Emitter  Emitter
	Interval time.Duration
	Logger   zerolog.Logger
	Now      func() time.Time
}

type Loop struct {
	sources  []models.Source
	fetcher  scraper.Fetcher
	tracker  *seen.Tracker
	sink     Sink
	emitter  Emitter
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time
	state    atomic.Int32
}

func New(cfg Config) (*Loop, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("poll: fetcher is required")
	}
	if err := scraper.ValidateSources(cfg.Sources); err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}
	tracker := cfg.Tracker
	if tracker == nil {
		tracker = seen.NewTracker()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Loop{
		sources:  append([]models.Source(nil), cfg.Sources...),
		fetcher:  cfg.Fetcher,
		tracker:  tracker,
		sink:     cfg.Sink,
		emitter:  cfg.Emitter,
		interval: interval,
		logger:   cfg.Logger,
		now:      now,
	}, nil
}

func (l *Loop) State() State {
	return State(l.state.Load())
}

func (l *Loop) Tracker() *seen.Tracker {
	return l.tracker
}

// Run repeats RunCycle with a fixed sleep in between until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		report := l.RunCycle(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Info().
			Int("new", len(report.Discovered)).
			Int("failed_sources", report.FailedSources()).
			Dur("next_in", l.interval).
			Msg("cycle complete")

		l.state.Store(int32(StateIdle))
		timer := time.NewTimer(l.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// RunCycle processes every source once, in registry order. A failing
// source is logged and skipped; it never stops the others.
func (l *Loop) RunCycle(ctx context.Context) CycleReport {
	l.state.Store(int32(StateScanning))

	report := CycleReport{StartedAt: l.now()}
	for _, src := range l.sources {
		if ctx.Err() != nil {
			break
		}
		report.Sources = append(report.Sources, l.scanSource(ctx, src, &report))
	}
	return report
}

func (l *Loop) scanSource(ctx context.Context, src models.Source, report *CycleReport) SourceReport {
	logger := l.logger.With().Str("source", src.Name).Logger()
	sr := SourceReport{Name: src.Name}

	postings, err := scraper.Scrape(ctx, l.fetcher, src)
	if err != nil {
		sr.Err = fmt.Errorf("%s: %w", src.Name, err)
		logger.Error().Err(err).Str("url", src.URL).Msg("check source")
		return sr
	}
	sr.Found = len(postings)

	for _, p := range postings {
		if !l.tracker.IsNew(p.Title) {
			continue
		}
		sr.New++
		report.Discovered = append(report.Discovered, p)
		logger.Info().Str("title", p.Title).Str("link", p.Link).Msg("new posting")

		if l.sink != nil {
			if err := l.sink.Append(ctx, models.NewRecord(p, l.now())); err != nil {
				sr.PersistFailures++
				logger.Error().Err(err).Str("title", p.Title).Msg("append log record")
			}
		}
		if l.emitter != nil {
			if err := l.emitter.Publish(ctx, p); err != nil {
				logger.Warn().Err(err).Str("title", p.Title).Msg("publish notification")
			}
		}
	}
	logger.Debug().Int("found", sr.Found).Int("new", sr.New).Msg("source checked")
	return sr
}
