package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jimezsa/govjobalert/internal/notify"
	"github.com/jimezsa/govjobalert/internal/poll"
	"github.com/jimezsa/govjobalert/internal/tray"
	"golang.org/x/sync/errgroup"
)

type RunCmd struct {
	WatchOptions
	Interval time.Duration `help:"Pause between checks (default from config, 5m)."`
	Snooze   time.Duration `help:"Snooze delay for an alert (default from config, 1h)."`
	NoTray   bool          `help:"Run without the tray icon; stop with Ctrl+C." env:"GOVJOBALERT_NO_TRAY"`
	NoPopup  bool          `help:"Print alerts to the terminal instead of showing popups." env:"GOVJOBALERT_NO_POPUP"`
	Icon     string        `help:"Tray icon PNG." default:"icon.png" type:"path"`
}

// daemon is the polling task plus the presentation task.
type daemon struct {
	loop     *poll.Loop
	notifier *notify.Notifier
	sources  int
}

func (r *RunCmd) Run(ctx *Context) error {
	d, err := r.newDaemon(ctx)
	if err != nil {
		return err
	}

	if r.NoTray {
		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx.UI.Infof("Watching %d sources; press Ctrl+C to stop.", d.sources)
		return d.run(runCtx)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	tray.Run(tray.Options{
		Title:    tray.DefaultTitle,
		IconPath: r.Icon,
		Logger:   ctx.Logger,
		OnReady: func() {
			go func() {
				if err := d.run(runCtx); err != nil {
					ctx.Logger.Error().Err(err).Msg("watcher stopped")
				}
			}()
		},
		OnQuit: func() {
			// No drain: in-flight fetches and pending snoozes die with
			// the process.
			cancel()
			os.Exit(0)
		},
	})
	cancel()
	return nil
}

func (r *RunCmd) newDaemon(ctx *Context) (*daemon, error) {
	setup, err := newWatchSetup(ctx, r.WatchOptions)
	if err != nil {
		return nil, err
	}

	interval := r.Interval
	if interval <= 0 {
		if interval, err = ctx.Config.IntervalDuration(); err != nil {
			return nil, err
		}
	}
	snooze := r.Snooze
	if snooze <= 0 {
		if snooze, err = ctx.Config.SnoozeDuration(); err != nil {
			return nil, err
		}
	}

	var presenter notify.Presenter = notify.DialogPresenter{Snooze: snooze}
	if r.NoPopup {
		presenter = notify.ConsolePresenter{UI: ctx.UI}
	}
	notifier := notify.New(presenter, notify.BrowserOpener,
		notify.WithSnooze(snooze),
		notify.WithLogger(ctx.Logger),
	)

	loop, err := setup.loop(ctx, setup.workbook, notifier, interval)
	if err != nil {
		return nil, fmt.Errorf("build poll loop: %w", err)
	}

	ctx.Logger.Info().
		Int("sources", len(setup.sources)).
		Dur("interval", interval).
		Dur("snooze", snooze).
		Str("log_file", setup.workbook.Path()).
		Msg("watcher configured")

	return &daemon{loop: loop, notifier: notifier, sources: len(setup.sources)}, nil
}

func (d *daemon) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.notifier.Run(gctx) })
	g.Go(func() error { return d.loop.Run(gctx) })
	return g.Wait()
}
