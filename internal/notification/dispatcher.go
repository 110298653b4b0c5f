package notification

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultBatchWindow is the fixed email batching window.
const DefaultBatchWindow = 5 * time.Minute

// Dispatcher decides between immediate and batched email delivery. It keeps
// one batching window per recipient: the first notification after a quiet
// period is emailed immediately and anchors a new window; notifications
// arriving while the window is open accumulate; when the window expires the
// accumulated batch goes out as a single email. Expiry is evaluated lazily on
// the next dispatch or an explicit FlushExpired call, never by a timer owned
// here.
type Dispatcher struct {
	mailer Mailer
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[uuid.UUID]*recipientWindow
}

// recipientWindow is the per-recipient batching state machine: either no
// window, or an open window with its start time and pending notifications.
// Its mutex serializes dispatches for one recipient so two concurrent
// notifications cannot open overlapping windows.
type recipientWindow struct {
	mu      sync.Mutex
	open    bool
	start   time.Time
	email   string
	pending []Notification
}

// NewDispatcher creates a Dispatcher with the given batching window.
// A non-positive window falls back to DefaultBatchWindow.
func NewDispatcher(mailer Mailer, window time.Duration) *Dispatcher {
	if window <= 0 {
		window = DefaultBatchWindow
	}
	return &Dispatcher{
		mailer:  mailer,
		window:  window,
		now:     time.Now,
		windows: make(map[uuid.UUID]*recipientWindow),
	}
}

// Dispatch routes one freshly created notification. The returned error is a
// delivery error only; the notification is already persisted and stays valid
// in-app regardless.
func (d *Dispatcher) Dispatch(recipientEmail string, n Notification) error {
	w := d.windowFor(n.RecipientID)

	w.mu.Lock()
	defer w.mu.Unlock()

	now := d.now()

	if w.open && now.Before(w.start.Add(d.window)) {
		w.pending = append(w.pending, n)
		return nil
	}

	// Lazily close an expired window before anchoring a new one.
	var flushErr error
	if w.open {
		flushErr = d.flushLocked(w)
	}

	w.open = true
	w.start = now
	w.email = recipientEmail
	w.pending = []Notification{n}

	if err := d.mailer.Send(recipientEmail, subjectFor(n.Kind), n.Message); err != nil {
		return errors.Join(flushErr, fmt.Errorf("sending notification email: %w", err))
	}

	return flushErr
}

// FlushExpired closes every expired window, sending the pending batch for
// each. Intended to be called from a periodic sweep so batches go out even
// when no further notifications arrive for a recipient.
func (d *Dispatcher) FlushExpired() error {
	d.mu.Lock()
	windows := make([]*recipientWindow, 0, len(d.windows))
	for _, w := range d.windows {
		windows = append(windows, w)
	}
	d.mu.Unlock()

	var firstErr error
	now := d.now()
	for _, w := range windows {
		w.mu.Lock()
		if w.open && !now.Before(w.start.Add(d.window)) {
			if err := d.flushLocked(w); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		w.mu.Unlock()
	}

	return firstErr
}

// flushLocked sends the batch email for a window and resets it. The anchor
// notification was already delivered individually, so a window holding only
// the anchor resets without a second email. Caller holds w.mu.
func (d *Dispatcher) flushLocked(w *recipientWindow) error {
	pending := w.pending
	email := w.email
	w.open = false
	w.pending = nil

	if len(pending) < 2 {
		return nil
	}

	subject := fmt.Sprintf("You have %d new notifications", len(pending))

	var b strings.Builder
	for _, n := range pending {
		fmt.Fprintf(&b, "- %s\n", n.Message)
	}

	if err := d.mailer.Send(email, subject, b.String()); err != nil {
		return fmt.Errorf("sending batch email: %w", err)
	}

	return nil
}

func (d *Dispatcher) windowFor(recipientID uuid.UUID) *recipientWindow {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.windows[recipientID]
	if !ok {
		w = &recipientWindow{}
		d.windows[recipientID] = w
	}
	return w
}

func subjectFor(kind string) string {
	switch kind {
	case KindMention:
		return "You were mentioned"
	case KindAssignment:
		return "You were assigned a task"
	case KindReply:
		return "New reply to your comment"
	default:
		return "New notification"
	}
}
