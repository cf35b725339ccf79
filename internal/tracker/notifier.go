// internal/tracker/notifier.go
package tracker

import (
	"sync"
	"time"
)

const DefaultNotificationDelay = 3 * time.Second

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

type Notification struct {
	Kind      NotificationKind
	Message   string
	ExpiresAt time.Time
}

// Notifier holds transient messages that disappear after a fixed delay.
type Notifier struct {
	mu    sync.Mutex
	delay time.Duration
	now   func() time.Time
	items []Notification
}

// NewNotifier uses DefaultNotificationDelay when delay is not positive and the
// wall clock when now is nil.
func NewNotifier(delay time.Duration, now func() time.Time) *Notifier {
	if delay <= 0 {
		delay = DefaultNotificationDelay
	}
	if now == nil {
		now = time.Now
	}
	return &Notifier{delay: delay, now: now}
}

func (n *Notifier) Success(msg string) {
	n.push(NotificationSuccess, msg)
}

func (n *Notifier) Error(msg string) {
	n.push(NotificationError, msg)
}

func (n *Notifier) push(kind NotificationKind, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notification{
		Kind:      kind,
		Message:   msg,
		ExpiresAt: n.now().Add(n.delay),
	})
}

// Active drops expired notifications and returns the rest, oldest first.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	kept := n.items[:0]
	for _, item := range n.items {
		if now.Before(item.ExpiresAt) {
			kept = append(kept, item)
		}
	}
	n.items = kept
	return append([]Notification(nil), kept...)
}

// Dismiss closes every notification early.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = nil
}
