package api

import (
	"strings"

	"chatterm/models"
)

// The service hands back loosely structured records. Everything is
// validated here, at the boundary: entries without a usable identity
// are dropped, missing optional fields default, and nothing untyped
// leaks into view logic.

type wireUser struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Status string `json:"status"`
}

func (w wireUser) contact() (models.Contact, bool) {
	uid := strings.TrimSpace(w.UID)
	if uid == "" {
		return models.Contact{}, false
	}
	return models.Contact{
		UID:    uid,
		Name:   strings.TrimSpace(w.Name),
		Avatar: w.Avatar,
		Status: w.Status,
	}, true
}

func (w wireUser) session() (models.Session, bool) {
	c, ok := w.contact()
	if !ok {
		return models.Session{}, false
	}
	return models.Session(c), true
}

type wireMessage struct {
	ID       string   `json:"id"`
	Sender   wireUser `json:"sender"`
	Receiver string   `json:"receiver"`
	Text     string   `json:"text"`
	SentAt   int64    `json:"sent_at"`
}

func (w wireMessage) message() (models.Message, bool) {
	sender, ok := w.Sender.contact()
	if w.ID == "" || !ok {
		return models.Message{}, false
	}
	sentAt := w.SentAt
	if sentAt < 0 {
		sentAt = 0
	}
	return models.Message{
		ID:       w.ID,
		Sender:   sender,
		Receiver: w.Receiver,
		Text:     w.Text,
		SentAt:   sentAt,
	}, true
}

type wireConversation struct {
	ID          string       `json:"conversation_id"`
	With        wireUser     `json:"conversation_with"`
	LastMessage *wireMessage `json:"last_message"`
	Unread      int          `json:"unread_count"`
}

func (w wireConversation) conversation() (models.Conversation, bool) {
	with, ok := w.With.contact()
	if w.ID == "" || !ok {
		return models.Conversation{}, false
	}
	conv := models.Conversation{
		ID:     w.ID,
		With:   with,
		Unread: w.Unread,
	}
	if conv.Unread < 0 {
		conv.Unread = 0
	}
	if w.LastMessage != nil {
		if m, ok := w.LastMessage.message(); ok {
			conv.LastMessage = &m
		}
	}
	return conv, true
}

func decodeContacts(in []wireUser) []models.Contact {
	out := make([]models.Contact, 0, len(in))
	for _, w := range in {
		if c, ok := w.contact(); ok {
			out = append(out, c)
		}
	}
	return out
}

func decodeMessages(in []wireMessage) []models.Message {
	out := make([]models.Message, 0, len(in))
	for _, w := range in {
		if m, ok := w.message(); ok {
			out = append(out, m)
		}
	}
	return out
}

func decodeConversations(in []wireConversation) []models.Conversation {
	out := make([]models.Conversation, 0, len(in))
	for _, w := range in {
		if c, ok := w.conversation(); ok {
			out = append(out, c)
		}
	}
	return out
}
