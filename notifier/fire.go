package notifier

import (
	"context"
	"log/slog"
	"time"
)

const fireTimeout = 10 * time.Second

// Fire delivers text on a detached goroutine. The caller observes no
// return channel; delivery failure is logged and discarded.
func Fire(ctx context.Context, n Notifier, text string) {
	if n == nil {
		return
	}

	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), fireTimeout)

	go func() {
		defer cancel()
		if err := n.Notify(detached, text); err != nil {
			slog.DebugContext(detached, "notification dropped", "error", err)
		}
	}()
}
