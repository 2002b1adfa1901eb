package apiclient

import (
	"context"
	"time"
)

// ReminderInterval — период напоминания отслеживать соглашение после перехода к форме заявки.
const ReminderInterval = 10 * time.Second

// Reminder периодически напоминает отслеживать соглашение, пока оно не отслеживается.
type Reminder struct {
	interval time.Duration
	tracked  func() bool
	notify   func()
}

// NewReminder создает Reminder. interval <= 0 означает ReminderInterval.
func NewReminder(interval time.Duration, tracked func() bool, notify func()) *Reminder {
	if interval <= 0 {
		interval = ReminderInterval
	}
	return &Reminder{interval: interval, tracked: tracked, notify: notify}
}

// Run блокируется до отмены ctx или до первого тика, на котором соглашение уже отслеживается.
func (r *Reminder) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r.tracked() {
				return
			}
			r.notify()
		}
	}
}
