// Package notify presents newly found postings to the user and owns the
// snooze schedule.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jimezsa/govjobalert/internal/models"
	"github.com/rs/zerolog"
)

const (
	DefaultSnooze = time.Hour

	queueSize = 64
)

type Action int

const (
	ActionDismiss Action = iota
	ActionApply
	ActionSnooze
)

func (a Action) String() string {
	switch a {
	case ActionApply:
		return "apply"
	case ActionSnooze:
		return "snooze"
	default:
		return "dismiss"
	}
}

// Notification is one presentation of a posting. Attempt is 1 when the
// posting is first found and grows by one per snooze.
type Notification struct {
	ID      string
	Posting models.Posting
	Attempt int
}

// Presenter shows a notification and blocks until the user acts on it.
type Presenter interface {
	Present(ctx context.Context, n Notification) (Action, error)
}

// Opener opens a posting link, normally in the default browser.
type Opener interface {
	Open(link string) error
}

type OpenerFunc func(link string) error

func (f OpenerFunc) Open(link string) error { return f(link) }

type snoozeKey struct {
	title string
	link  string
}

// Notifier queues postings for presentation. Publish never waits on the
// user; each notification is presented on its own goroutine.
type Notifier struct {
	presenter Presenter
	opener    Opener
	snooze    time.Duration
	logger    zerolog.Logger

	events chan Notification

	mu      sync.Mutex
	pending map[snoozeKey]*time.Timer
	closed  bool
}

type Option func(*Notifier)

func WithSnooze(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.snooze = d
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

func New(presenter Presenter, opener Opener, opts ...Option) *Notifier {
	n := &Notifier{
		presenter: presenter,
		opener:    opener,
		snooze:    DefaultSnooze,
		logger:    zerolog.Nop(),
		events:    make(chan Notification, queueSize),
		pending:   make(map[snoozeKey]*time.Timer),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Publish enqueues a freshly discovered posting.
func (n *Notifier) Publish(ctx context.Context, p models.Posting) error {
	return n.enqueue(ctx, Notification{
		ID:      uuid.NewString(),
		Posting: p,
		Attempt: 1,
	})
}

func (n *Notifier) enqueue(ctx context.Context, note Notification) error {
	select {
	case n.events <- note:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run presents queued notifications until ctx is done, then drops every
// pending snooze without waiting for open dialogs.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			n.cancelPending()
			return nil
		case note := <-n.events:
			go n.present(ctx, note)
		}
	}
}

// Pending returns the number of scheduled snoozes.
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

func (n *Notifier) present(ctx context.Context, note Notification) {
	logger := n.logger.With().
		Str("id", note.ID).
		Str("title", note.Posting.Title).
		Int("attempt", note.Attempt).
		Logger()

	action, err := n.presenter.Present(ctx, note)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error().Err(err).Msg("present notification")
		}
		return
	}
	logger.Debug().Str("action", action.String()).Msg("notification closed")

	switch action {
	case ActionApply:
		if n.opener == nil {
			return
		}
		if err := n.opener.Open(note.Posting.Link); err != nil {
			logger.Error().Err(err).Str("link", note.Posting.Link).Msg("open link")
		}
	case ActionSnooze:
		n.schedule(ctx, note)
	}
}

// schedule re-presents note after the snooze delay. A newer snooze for
// the same posting replaces the pending one.
func (n *Notifier) schedule(ctx context.Context, note Notification) {
	key := snoozeKey{title: note.Posting.Title, link: note.Posting.Link}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	if prev, ok := n.pending[key]; ok {
		prev.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(n.snooze, func() {
		n.mu.Lock()
		if n.pending[key] == timer {
			delete(n.pending, key)
		}
		n.mu.Unlock()

		next := note
		next.Attempt++
		_ = n.enqueue(ctx, next)
	})
	n.pending[key] = timer
}

func (n *Notifier) cancelPending() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for key, timer := range n.pending {
		timer.Stop()
		delete(n.pending, key)
	}
}
