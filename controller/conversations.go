package controller

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"chatterm/api"
	"chatterm/models"
)

// DefaultConversationLimit is how many conversations one fetch asks for.
const DefaultConversationLimit = 30

// ConversationLister lists the signed-in user's conversations, ordered
// by the service, each pre-populated with its last message. There is
// no fallback here: an empty result is a real empty state and the
// screen renders its call-to-action into the contacts list. Duplicate
// concurrent fetches coalesce.
type ConversationLister struct {
	svc   api.Service
	log   *zap.Logger
	group singleflight.Group
}

func NewConversationLister(svc api.Service, log *zap.Logger) *ConversationLister {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConversationLister{svc: svc, log: log}
}

// ListConversations returns up to limit conversations. A service
// failure comes back as *FetchError and the screen keeps whatever it
// had (worst case an empty list).
func (l *ConversationLister) ListConversations(limit int) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = DefaultConversationLimit
	}

	v, err, _ := l.group.Do(fmt.Sprintf("conversations:%d", limit), func() (any, error) {
		return l.svc.ListConversations(limit)
	})
	if err != nil {
		l.log.Warn("conversation fetch failed", zap.Error(err))
		return nil, &FetchError{Err: err}
	}
	return v.([]models.Conversation), nil
}
