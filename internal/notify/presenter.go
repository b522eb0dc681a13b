package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jimezsa/govjobalert/internal/ui"
	"github.com/ncruces/zenity"
	"github.com/pkg/browser"
)

const dialogTitle = "Government Job Alert"

// DialogPresenter shows a native popup with Apply, Snooze and Dismiss
// buttons.
type DialogPresenter struct {
	Snooze time.Duration
}

func (d DialogPresenter) Present(ctx context.Context, n Notification) (Action, error) {
	err := zenity.Question(
		dialogText(n),
		zenity.Title(dialogTitle),
		zenity.WarningIcon,
		zenity.OKLabel("Apply Now"),
		zenity.ExtraButton(snoozeLabel(d.Snooze)),
		zenity.CancelLabel("Dismiss"),
		zenity.Context(ctx),
	)
	switch {
	case err == nil:
		return ActionApply, nil
	case errors.Is(err, zenity.ErrExtraButton):
		return ActionSnooze, nil
	case errors.Is(err, zenity.ErrCanceled):
		return ActionDismiss, nil
	default:
		return ActionDismiss, err
	}
}

func dialogText(n Notification) string {
	text := fmt.Sprintf("New Job: %s\n\n%s", n.Posting.Title, n.Posting.Link)
	if n.Posting.Source != "" {
		text += "\n\nSource: " + n.Posting.Source
	}
	if n.Attempt > 1 {
		text += fmt.Sprintf("\n(reminder %d)", n.Attempt-1)
	}
	return text
}

func snoozeLabel(d time.Duration) string {
	if d <= 0 {
		d = DefaultSnooze
	}
	if d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "Snooze 1 Hour"
		}
		return fmt.Sprintf("Snooze %d Hours", hours)
	}
	return "Snooze " + d.String()
}

// ConsolePresenter prints the alert to the terminal and dismisses it.
type ConsolePresenter struct {
	UI *ui.UI
}

func (c ConsolePresenter) Present(_ context.Context, n Notification) (Action, error) {
	if c.UI == nil {
		return ActionDismiss, nil
	}
	label := "New job"
	if n.Attempt > 1 {
		label = "Reminder"
	}
	c.UI.Alertf("%s [%s]: %s", label, n.Posting.Source, n.Posting.Title)
	c.UI.Infof("  %s", c.UI.LinkText(n.Posting.Link))
	return ActionDismiss, nil
}

// BrowserOpener opens links in the default browser.
var BrowserOpener = OpenerFunc(browser.OpenURL)
