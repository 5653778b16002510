package noop

import (
	"context"

	"github.com/virtual-me/agent/notifier"
)

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, text string) error {
	return nil
}

// NewNotifier discards every notification. Used when no delivery
// credentials are configured.
func NewNotifier() notifier.Notifier {
	return noopNotifier{}
}
