package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageOwnedBy(t *testing.T) {
	msg := Message{ID: "1", Sender: Contact{UID: "alice"}, Text: "hi"}

	session := &Session{UID: "alice"}
	assert.True(t, msg.OwnedBy(session), "sender uid matches session uid")

	other := &Session{UID: "bob"}
	assert.False(t, msg.OwnedBy(other), "sender uid differs from session uid")

	assert.False(t, msg.OwnedBy(nil), "absent session owns nothing")
	assert.False(t, msg.OwnedBy(&Session{}), "empty session uid owns nothing")
}

func TestDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "Iron Man", Contact{UID: "superhero1", Name: "Iron Man"}.DisplayName())
	assert.Equal(t, "superhero1", Contact{UID: "superhero1"}.DisplayName())

	assert.Equal(t, "alice", Session{UID: "alice"}.DisplayName())
	assert.Equal(t, "Alice", Session{UID: "alice", Name: "Alice"}.DisplayName())
}

func TestConversationSummary(t *testing.T) {
	conv := Conversation{ID: "c1", With: Contact{UID: "bob"}}
	assert.Equal(t, "bob", conv.Title())
	assert.Equal(t, "New conversation", conv.LastText())
	assert.EqualValues(t, 0, conv.LastSentAt())

	conv.LastMessage = &Message{Text: "see you", SentAt: 1700000000}
	assert.Equal(t, "see you", conv.LastText())
	assert.EqualValues(t, 1700000000, conv.LastSentAt())
}

func TestSampleContactsStable(t *testing.T) {
	samples := SampleContacts()
	assert.Len(t, samples, 4)
	for _, c := range samples {
		assert.NotEmpty(t, c.UID)
		assert.NotEmpty(t, c.Name)
	}
	// Callers may mutate the returned slice; a second call must not
	// observe that.
	samples[0].Name = "mutated"
	assert.Equal(t, "Iron Man", SampleContacts()[0].Name)
}
