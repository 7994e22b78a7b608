package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"personentry/pkg/models"
)

// DefaultNotificationTTL is how long a notification stays up before
// dismissing itself.
const DefaultNotificationTTL = 7 * time.Second

// Notifier manages transient user-facing messages. Every posted notification
// gets its own expiry timer; manual dismissal and the timer both funnel into
// the same idempotent removal, so whichever fires first wins and the loser is
// a no-op.
type Notifier struct {
	mu     sync.RWMutex
	ttl    time.Duration
	order  []string
	items  map[string]models.Notification
	timers map[string]*time.Timer
}

// NewNotifier creates a notifier whose notifications expire after ttl.
// A non-positive ttl falls back to DefaultNotificationTTL.
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{
		ttl:    ttl,
		items:  make(map[string]models.Notification),
		timers: make(map[string]*time.Timer),
	}
}

// Post appends a notification and schedules its auto-dismissal. Returns the
// notification id.
func (n *Notifier) Post(message string, severity models.Severity) string {
	id := uuid.NewString()

	n.mu.Lock()
	n.items[id] = models.Notification{ID: id, Message: message, Severity: severity}
	n.order = append(n.order, id)
	n.timers[id] = time.AfterFunc(n.ttl, func() {
		n.Dismiss(id)
	})
	n.mu.Unlock()

	return id
}

// Dismiss removes a notification and stops its timer. Dismissing an unknown
// or already-dismissed id is a no-op.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.items[id]; !ok {
		return
	}
	if t := n.timers[id]; t != nil {
		t.Stop()
	}
	delete(n.items, id)
	delete(n.timers, id)
	for i, existing := range n.order {
		if existing == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}

// List returns the active notifications in the order they were posted.
func (n *Notifier) List() []models.Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]models.Notification, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, n.items[id])
	}
	return out
}
