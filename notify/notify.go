// Package notify delivers directory notifications to logs, to a Kafka topic
// and to an in-memory feed the HTTP layer hands back to clients.
package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/warp/employee-directory/directory"
)

// Log writes every notification as an info line.
type Log struct {
	log zerolog.Logger
}

func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log.With().Str("component", "notify").Logger()}
}

func (l *Log) Notify(n directory.Notification) {
	l.log.Info().
		Str("kind", string(n.Kind)).
		Str("action", n.Action).
		Ints("employee_ids", n.EmployeeIDs).
		Msg(n.Message)
}

// Multi fans a notification out to every notifier in order.
type Multi []directory.Notifier

func (m Multi) Notify(n directory.Notification) {
	for _, x := range m {
		x.Notify(n)
	}
}

// DefaultFeedSize is how many notifications a Feed keeps.
const DefaultFeedSize = 20

// Feed keeps the most recent notifications, newest last.
type Feed struct {
	mu    sync.Mutex
	items []directory.Notification
	size  int
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{size: size}
}

func (f *Feed) Notify(n directory.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if over := len(f.items) - f.size; over > 0 {
		f.items = append(f.items[:0:0], f.items[over:]...)
	}
}

// Recent returns a copy of the retained notifications.
func (f *Feed) Recent() []directory.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]directory.Notification(nil), f.items...)
}

// Drain returns the retained notifications and forgets them.
func (f *Feed) Drain() []directory.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	return out
}
