package photoheart

import (
	"log"

	"github.com/ncruces/zenity"
)

// Notifier surfaces a one-off, non-blocking warning to the user.
type Notifier interface {
	Warn(title, message string)
}

// LogNotifier writes warnings to the standard logger.
type LogNotifier struct{}

// Warn logs the warning.
func (LogNotifier) Warn(title, message string) {
	log.Printf("[photoheart] %s: %s", title, message)
}

// ZenityNotifier shows a desktop notification and also logs it. The
// notification runs in its own goroutine so the frame loop never waits.
type ZenityNotifier struct{}

// Warn logs the warning and posts a desktop notification.
func (ZenityNotifier) Warn(title, message string) {
	LogNotifier{}.Warn(title, message)
	go func() {
		if err := zenity.Notify(message, zenity.Title(title), zenity.WarningIcon); err != nil {
			log.Printf("[photoheart] notification failed: %v", err)
		}
	}()
}

// warnOnce wraps a Notifier so only the first warning is delivered.
type warnOnce struct {
	n    Notifier
	sent bool
}

func (w *warnOnce) Warn(title, message string) {
	if w.sent || w.n == nil {
		return
	}
	w.sent = true
	w.n.Warn(title, message)
}
