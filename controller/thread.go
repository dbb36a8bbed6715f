package controller

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatterm/api"
	"chatterm/models"
)

// DefaultMessageLimit is how much history one thread open fetches.
const DefaultMessageLimit = 50

// ThreadState is the lifecycle of an open thread: Loading until the
// history fetch resolves, Ready after, whatever the outcome.
type ThreadState int

const (
	ThreadLoading ThreadState = iota
	ThreadReady
)

// Thread is the controller for one open conversation screen. It owns
// the in-memory message sequence, the compose field, and exactly one
// push subscription, which it releases on Close on every exit path.
// Pushed messages from anyone but the open counterpart are ignored so
// nothing leaks across conversations. After Close every push and every
// late fetch result is a no-op.
type Thread struct {
	svc         api.Service
	log         *zap.Logger
	counterpart models.Contact
	handlerID   string
	onChange    func()

	mu       sync.Mutex
	state    ThreadState
	messages []models.Message
	compose  string
	sending  bool
	sendErr  string
	closed   bool
}

// NewThread registers the push subscription and returns the thread in
// Loading state. onChange fires after every mutation caused by a push
// or a completed network call; the screen uses it to redraw.
func NewThread(svc api.Service, log *zap.Logger, counterpart models.Contact, onChange func()) *Thread {
	if log == nil {
		log = zap.NewNop()
	}
	if onChange == nil {
		onChange = func() {}
	}
	t := &Thread{
		svc:         svc,
		log:         log,
		counterpart: counterpart,
		handlerID:   "thread-" + uuid.NewString(),
		onChange:    onChange,
		state:       ThreadLoading,
	}
	svc.Subscribe(t.handlerID, t.receive)
	return t
}

// Load fetches prior history, oldest first, and moves the thread to
// Ready whether or not the fetch worked. A failure just leaves the
// thread empty.
func (t *Thread) Load() {
	msgs, err := t.svc.ListMessages(t.counterpart.UID, DefaultMessageLimit)
	if err != nil {
		t.log.Warn("history fetch failed",
			zap.String("counterpart", t.counterpart.UID),
			zap.Error(&FetchError{Err: err}))
		msgs = nil
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.messages = msgs
	t.state = ThreadReady
	t.mu.Unlock()
	t.onChange()
}

// receive is the push handler. Only messages from the open counterpart
// are appended, and only while the thread is Ready and not closed.
func (t *Thread) receive(m models.Message) {
	if m.Sender.UID != t.counterpart.UID {
		return
	}

	t.mu.Lock()
	if t.closed || t.state != ThreadReady {
		t.mu.Unlock()
		return
	}
	t.messages = append(t.messages, m)
	t.mu.Unlock()
	t.onChange()
}

// Send submits the compose field. Blank input is a no-op. On success
// the stored message is appended and the compose field cleared; on
// failure the compose field keeps the user's text and only the sending
// flag drops, so resending is a manual retry.
func (t *Thread) Send() error {
	t.mu.Lock()
	text := t.compose
	if strings.TrimSpace(text) == "" || t.sending || t.closed {
		t.mu.Unlock()
		return nil
	}
	t.sending = true
	t.sendErr = ""
	t.mu.Unlock()
	t.onChange()

	msg, err := t.svc.SendTextMessage(t.counterpart.UID, text)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.sending = false
	if err != nil {
		t.sendErr = "Message not sent. Press Enter to retry."
		t.mu.Unlock()
		t.log.Warn("send failed", zap.String("counterpart", t.counterpart.UID), zap.Error(err))
		t.onChange()
		return &SendError{Err: err}
	}
	t.messages = append(t.messages, msg)
	t.compose = ""
	t.mu.Unlock()
	t.onChange()
	return nil
}

// Close drops the push subscription. Safe to call more than once.
func (t *Thread) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()
	t.svc.Unsubscribe(t.handlerID)
}

// State returns the thread lifecycle state.
func (t *Thread) State() ThreadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Messages returns a copy of the current sequence, oldest first.
func (t *Thread) Messages() []models.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Counterpart returns the contact this thread is open with.
func (t *Thread) Counterpart() models.Contact { return t.counterpart }

// Sending reports whether a send is in flight.
func (t *Thread) Sending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sending
}

// Compose returns the current compose field text.
func (t *Thread) Compose() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.compose
}

// SetCompose replaces the compose field text.
func (t *Thread) SetCompose(text string) {
	t.mu.Lock()
	t.compose = text
	t.mu.Unlock()
}

// SendErrorText returns the inline send-failure notice, empty when the
// last send worked.
func (t *Thread) SendErrorText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sendErr
}
