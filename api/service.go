// Package api is the client for the hosted chat service. Everything
// durable (accounts, sessions, messages, conversations, presence)
// lives on the service side; this package only speaks its HTTP API and
// realtime feed and hands typed entities to the rest of the app.
package api

import (
	"fmt"

	"chatterm/models"
)

// Error codes returned by the service.
const (
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeAuthFailed    = "AUTH_FAILED"
	CodeNotFound      = "NOT_FOUND"
	CodeInternal      = "INTERNAL"
)

// Error is a failure reported by the service. Message is shown to the
// user verbatim where the screens call for it.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("service error %s", e.Code)
}

// MessageHandler receives text messages pushed over the realtime feed.
type MessageHandler func(models.Message)

// Service is the surface of the hosted chat backend consumed by the
// app. It mirrors the vendor SDK: request/response calls plus a
// listener registry for pushed messages.
type Service interface {
	// Init performs the service handshake. It must complete (either
	// way) before any screen is shown.
	Init() error

	// SignIn exchanges uid + app auth key for a session.
	SignIn(uid string) (models.Session, error)
	// SignUp creates a user record. It does not sign the user in.
	SignUp(uid, name string) (models.Session, error)
	// SignOut invalidates the current session. Best effort.
	SignOut() error
	// CurrentSession returns the active session, if any.
	CurrentSession() (models.Session, bool, error)

	// ListUsers returns up to limit directory entries.
	ListUsers(limit int) ([]models.Contact, error)
	// ListConversations returns up to limit conversations, most
	// relevant first, each carrying its last message.
	ListConversations(limit int) ([]models.Conversation, error)
	// ListMessages returns up to limit messages exchanged with the
	// counterpart, oldest first.
	ListMessages(counterpartUID string, limit int) ([]models.Message, error)
	// SendTextMessage submits a text message to the counterpart and
	// returns the stored message.
	SendTextMessage(counterpartUID, text string) (models.Message, error)

	// Subscribe registers a handler for pushed text messages under
	// handlerID. Unsubscribe removes it; pushes after removal are
	// dropped.
	Subscribe(handlerID string, h MessageHandler)
	Unsubscribe(handlerID string)
}
