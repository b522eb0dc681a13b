package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jimezsa/govjobalert/internal/models"
)

type recordingPresenter struct {
	mu      sync.Mutex
	shown   []Notification
	actions map[int]Action
	block   chan struct{}
	calls   chan Notification
}

func newRecordingPresenter() *recordingPresenter {
	return &recordingPresenter{
		actions: map[int]Action{},
		calls:   make(chan Notification, 16),
	}
}

func (p *recordingPresenter) Present(ctx context.Context, n Notification) (Action, error) {
	p.mu.Lock()
	p.shown = append(p.shown, n)
	action := p.actions[n.Attempt]
	block := p.block
	p.mu.Unlock()

	p.calls <- n
	if block != nil && n.Posting.Title == "blocked" {
		select {
		case <-block:
		case <-ctx.Done():
			return ActionDismiss, ctx.Err()
		}
	}
	return action, nil
}

func waitCall(t *testing.T, ch <-chan Notification) Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for presentation")
		return Notification{}
	}
}

func TestApplyOpensLink(t *testing.T) {
	presenter := newRecordingPresenter()
	presenter.actions[1] = ActionApply
	opened := make(chan string, 1)
	n := New(presenter, OpenerFunc(func(link string) error {
		opened <- link
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	posting := models.Posting{Title: "Clerk", Link: "https://www.ppsc.gop.pk//apply/5", Source: "PPSC"}
	if err := n.Publish(ctx, posting); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	got := waitCall(t, presenter.calls)
	if got.Posting != posting || got.Attempt != 1 || got.ID == "" {
		t.Fatalf("presented %+v", got)
	}
	select {
	case link := <-opened:
		if link != posting.Link {
			t.Fatalf("opened %q, want %q", link, posting.Link)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("link was not opened")
	}
	if n.Pending() != 0 {
		t.Fatalf("Pending() = %d after apply", n.Pending())
	}
}

func TestSnoozeRepresentsSamePosting(t *testing.T) {
	presenter := newRecordingPresenter()
	presenter.actions[1] = ActionSnooze
	presenter.actions[2] = ActionSnooze
	presenter.actions[3] = ActionDismiss
	n := New(presenter, nil, WithSnooze(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	posting := models.Posting{Title: "Inspector", Link: "https://fpsc.gov.pk/jobs/view/9", Source: "FPSC"}
	if err := n.Publish(ctx, posting); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	first := waitCall(t, presenter.calls)
	second := waitCall(t, presenter.calls)
	third := waitCall(t, presenter.calls)
	for i, got := range []Notification{first, second, third} {
		if got.Posting != posting {
			t.Fatalf("presentation %d posting = %+v", i+1, got.Posting)
		}
		if got.Attempt != i+1 {
			t.Fatalf("presentation %d attempt = %d", i+1, got.Attempt)
		}
		if got.ID != first.ID {
			t.Fatalf("snoozed notification changed id")
		}
	}

	select {
	case extra := <-presenter.calls:
		t.Fatalf("unexpected presentation after dismiss: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotificationsDoNotBlockEachOther(t *testing.T) {
	presenter := newRecordingPresenter()
	presenter.block = make(chan struct{})
	defer close(presenter.block)
	n := New(presenter, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	if err := n.Publish(ctx, models.Posting{Title: "blocked", Link: "https://a/job/1"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	waitCall(t, presenter.calls)

	if err := n.Publish(ctx, models.Posting{Title: "second", Link: "https://a/job/2"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	got := waitCall(t, presenter.calls)
	if got.Posting.Title != "second" {
		t.Fatalf("presented %q, want second", got.Posting.Title)
	}
}

func TestShutdownCancelsPendingSnooze(t *testing.T) {
	presenter := newRecordingPresenter()
	presenter.actions[1] = ActionSnooze
	n := New(presenter, nil, WithSnooze(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = n.Run(ctx)
		close(done)
	}()

	if err := n.Publish(ctx, models.Posting{Title: "Lecturer", Link: "https://a/job/3"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	waitCall(t, presenter.calls)

	deadline := time.Now().Add(2 * time.Second)
	for n.Pending() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("snooze was never scheduled")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-done
	if n.Pending() != 0 {
		t.Fatalf("Pending() = %d after shutdown, want 0", n.Pending())
	}
}

func TestPublishRespectsContext(t *testing.T) {
	n := New(newRecordingPresenter(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < queueSize; i++ {
		n.events <- Notification{}
	}
	if err := n.Publish(ctx, models.Posting{Title: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Publish() error = %v, want context.Canceled", err)
	}
}

func TestSnoozeLabel(t *testing.T) {
	cases := map[time.Duration]string{
		0:                "Snooze 1 Hour",
		time.Hour:        "Snooze 1 Hour",
		2 * time.Hour:    "Snooze 2 Hours",
		30 * time.Minute: "Snooze 30m0s",
	}
	for d, want := range cases {
		if got := snoozeLabel(d); got != want {
			t.Fatalf("snoozeLabel(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestDialogText(t *testing.T) {
	got := dialogText(Notification{Posting: models.Posting{Title: "Clerk", Link: "https://x/job", Source: "PPSC"}, Attempt: 2})
	want := "New Job: Clerk\n\nhttps://x/job\n\nSource: PPSC\n(reminder 1)"
	if got != want {
		t.Fatalf("dialogText() = %q, want %q", got, want)
	}
}
