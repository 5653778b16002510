// Package notifier delivers best-effort alerts. Callers fire and
// forget; a failed notification must never fail a conversation.
package notifier

import "context"

type Notifier interface {
	Notify(ctx context.Context, text string) error
}
