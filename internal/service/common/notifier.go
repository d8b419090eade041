//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"sync"

	"github.com/oshokin/llc-launcher/internal/logger"
)

// defaultNotificationQueue is the number of messages buffered by AsyncNotifier.
const defaultNotificationQueue = 8

// Notifier shows a status message to the user. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, title, message string)
}

// LogNotifier writes user messages to the log.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(ctx context.Context, title, message string) {
	logger.InfoKV(ctx, message, "notification", title)
}

// notification is one queued message.
type notification struct {
	ctx     context.Context //nolint:containedctx // Carries the logger of the caller.
	title   string
	message string
}

// AsyncNotifier hands messages to another notifier on a background goroutine.
// When the queue is full new messages are dropped with a warning.
// Messages sent after Close are dropped.
type AsyncNotifier struct {
	next  Notifier
	queue chan notification
	done  chan struct{}

	// mu guards closed and the queue against a send after close.
	mu     sync.RWMutex
	closed bool
}

// NewAsyncNotifier starts delivering to next. Close must be called to flush.
func NewAsyncNotifier(next Notifier, capacity int) *AsyncNotifier {
	if capacity <= 0 {
		capacity = defaultNotificationQueue
	}

	n := &AsyncNotifier{
		next:  next,
		queue: make(chan notification, capacity),
		done:  make(chan struct{}),
	}

	go n.deliver()

	return n
}

// Notify implements Notifier.
func (n *AsyncNotifier) Notify(ctx context.Context, title, message string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		logger.WarnKV(ctx, "Notifier is closed, message dropped", "title", title)

		return
	}

	select {
	case n.queue <- notification{ctx: ctx, title: title, message: message}:
	default:
		logger.WarnKV(ctx, "Notification queue is full, message dropped", "title", title)
	}
}

// Close stops accepting messages and waits until the queued ones are delivered.
func (n *AsyncNotifier) Close() {
	n.mu.Lock()

	if !n.closed {
		n.closed = true
		close(n.queue)
	}

	n.mu.Unlock()

	<-n.done
}

// deliver forwards queued messages until the queue is closed.
func (n *AsyncNotifier) deliver() {
	defer close(n.done)

	for item := range n.queue {
		n.next.Notify(item.ctx, item.title, item.message)
	}
}
