// Package notify provides the transient status message channel shown to
// trip clients. It is a feedback surface only, never a correctness mechanism.
package notify

import (
	"sync"
	"time"
)

// DefaultVisibleFor is how long a message stays visible before auto-hiding.
const DefaultVisibleFor = 3 * time.Second

// Severity classifies a status message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
)

// Message is a single visible status message.
type Message struct {
	Text     string
	Severity Severity
	ShownAt  time.Time
}

// Notifier holds at most one visible message at a time. Each Notify call
// supersedes the previous message and its pending hide timer (last call
// wins; there is no queue).
type Notifier struct {
	visibleFor time.Duration

	mu      sync.Mutex
	current *Message
	hide    *time.Timer
}

// NewNotifier creates a notifier. A non-positive visibleFor uses
// DefaultVisibleFor.
func NewNotifier(visibleFor time.Duration) *Notifier {
	if visibleFor <= 0 {
		visibleFor = DefaultVisibleFor
	}
	return &Notifier{visibleFor: visibleFor}
}

// Notify replaces the current message and reschedules the hide timer.
func (n *Notifier) Notify(text string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.hide != nil {
		n.hide.Stop()
	}

	msg := &Message{
		Text:     text,
		Severity: severity,
		ShownAt:  time.Now(),
	}
	n.current = msg

	n.hide = time.AfterFunc(n.visibleFor, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		// Only hide if no newer message replaced this one.
		if n.current == msg {
			n.current = nil
		}
	})
}

// Success is shorthand for Notify with SeveritySuccess.
func (n *Notifier) Success(text string) {
	n.Notify(text, SeveritySuccess)
}

// Info is shorthand for Notify with SeverityInfo.
func (n *Notifier) Info(text string) {
	n.Notify(text, SeverityInfo)
}

// Error is shorthand for Notify with SeverityError.
func (n *Notifier) Error(text string) {
	n.Notify(text, SeverityError)
}

// Current returns the visible message, or nil if none is showing. The
// returned message is a copy.
func (n *Notifier) Current() *Message {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return nil
	}
	cpy := *n.current
	return &cpy
}

// Close stops the pending hide timer, if any.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.hide != nil {
		n.hide.Stop()
		n.hide = nil
	}
	n.current = nil
}
