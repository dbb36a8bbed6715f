package models

// StatusOnline is the presence value the service reports for a
// connected user. Anything else is treated as offline.
const StatusOnline = "online"

// Session is the locally-held copy of the currently authenticated
// identity. The service owns the real session; screens only keep this
// snapshot around to label and attribute things.
type Session struct {
	UID    string
	Name   string
	Avatar string
	Status string
}

// DisplayName returns the human name, falling back to the uid.
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.UID
}

// Contact is a directory entry for another user, independent of any
// conversation.
type Contact struct {
	UID    string
	Name   string
	Avatar string
	Status string
}

// DisplayName returns the human name, falling back to the uid.
func (c Contact) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.UID
}

// Online reports whether the service marked this contact as present.
func (c Contact) Online() bool {
	return c.Status == StatusOnline
}

// Message is one text message in a thread. SentAt is UNIX seconds as
// reported by the service; zero means the service sent no timestamp.
type Message struct {
	ID       string
	Sender   Contact
	Receiver string
	Text     string
	SentAt   int64
}

// OwnedBy reports whether m was sent by the session user. An absent
// session never owns a message.
func (m Message) OwnedBy(s *Session) bool {
	if s == nil || s.UID == "" {
		return false
	}
	return m.Sender.UID == s.UID
}

// Conversation is a snapshot of one thread with a single counterpart,
// summarized by its most recent message. LastMessage is nil for a
// conversation that has no messages yet.
type Conversation struct {
	ID          string
	With        Contact
	LastMessage *Message
	Unread      int
}

// Title returns the counterpart's display name.
func (c Conversation) Title() string {
	return c.With.DisplayName()
}

// LastText returns the summary line for the conversation row.
func (c Conversation) LastText() string {
	if c.LastMessage == nil || c.LastMessage.Text == "" {
		return "New conversation"
	}
	return c.LastMessage.Text
}

// LastSentAt returns the UNIX timestamp of the last message, or zero
// when there is none.
func (c Conversation) LastSentAt() int64 {
	if c.LastMessage == nil {
		return 0
	}
	return c.LastMessage.SentAt
}
