package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// deadSocket is a realtime endpoint that refuses connections
// immediately, so sign-in tests exercise the feed-unavailable path
// without blocking.
const deadSocket = "ws://127.0.0.1:1"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		AppID:     "testapp",
		Region:    "eu",
		AuthKey:   "secret-key",
		BaseURL:   srv.URL,
		SocketURL: deadSocket,
	}, zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestSignIn(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/sessions", r.URL.Path)
		require.Equal(t, "testapp", r.Header.Get("X-App-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice", body["uid"])
		require.Equal(t, "secret-key", body["auth_key"])

		writeJSON(w, http.StatusOK, map[string]any{
			"token": "tok-1",
			"user":  map[string]any{"uid": "alice", "name": "Alice", "status": "online"},
		})
	})

	session, err := c.SignIn("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.UID)
	assert.Equal(t, "Alice", session.Name)
	assert.Equal(t, "online", session.Status)
}

func TestSignInErrorIsVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error": map[string]string{"code": CodeAuthFailed, "message": "UID alice does not exist"},
		})
	})

	_, err := c.SignIn("alice")
	require.Error(t, err)
	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeAuthFailed, apiErr.Code)
	assert.Equal(t, "UID alice does not exist", apiErr.Message)
}

func TestSignUpConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users", r.URL.Path)
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": map[string]string{"code": CodeAlreadyExists, "message": "uid already taken"},
		})
	})

	_, err := c.SignUp("alice", "Alice")
	require.Error(t, err)
	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeAlreadyExists, apiErr.Code)
}

func TestListUsersDropsMalformedEntries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "30", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{
			"users": []map[string]any{
				{"uid": "bob", "name": "Bob"},
				{"name": "no uid, dropped"},
				{"uid": "  ", "name": "blank uid, dropped"},
				{"uid": "carol"},
			},
		})
	})

	contacts, err := c.ListUsers(30)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "bob", contacts[0].UID)
	assert.Equal(t, "carol", contacts[1].UID)
	assert.Equal(t, "carol", contacts[1].DisplayName())
}

func TestListConversations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"conversations": []map[string]any{
				{
					"conversation_id":   "conv-1",
					"conversation_with": map[string]any{"uid": "bob", "name": "Bob"},
					"last_message": map[string]any{
						"id":      "m9",
						"sender":  map[string]any{"uid": "bob"},
						"text":    "see you",
						"sent_at": 1700000000,
					},
					"unread_count": 2,
				},
				{
					"conversation_id":   "conv-2",
					"conversation_with": map[string]any{"uid": "carol"},
				},
			},
		})
	})

	convs, err := c.ListConversations(30)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "Bob", convs[0].Title())
	assert.Equal(t, "see you", convs[0].LastText())
	assert.Equal(t, 2, convs[0].Unread)
	assert.Nil(t, convs[1].LastMessage)
	assert.Equal(t, "New conversation", convs[1].LastText())
}

func TestListMessagesKeepsServiceOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "bob", r.URL.Query().Get("with"))
		require.Equal(t, "50", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{
			"messages": []map[string]any{
				{"id": "m1", "sender": map[string]any{"uid": "bob"}, "text": "oldest", "sent_at": 100},
				{"id": "m2", "sender": map[string]any{"uid": "alice"}, "text": "newest", "sent_at": 200},
			},
		})
	})

	msgs, err := c.ListMessages("bob", 50)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "oldest", msgs[0].Text)
	assert.Equal(t, "newest", msgs[1].Text)
}

func TestSendTextMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/messages", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "bob", body["receiver"])
		require.Equal(t, "hello", body["text"])

		writeJSON(w, http.StatusOK, map[string]any{
			"message": map[string]any{
				"id":       "m3",
				"sender":   map[string]any{"uid": "alice"},
				"receiver": "bob",
				"text":     "hello",
				"sent_at":  1700000123,
			},
		})
	})

	msg, err := c.SendTextMessage("bob", "hello")
	require.NoError(t, err)
	assert.Equal(t, "m3", msg.ID)
	assert.Equal(t, "alice", msg.Sender.UID)
	assert.EqualValues(t, 1700000123, msg.SentAt)
}

func TestCurrentSessionWithoutTokenSkipsNetwork(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request before sign-in")
	})

	_, ok, err := c.CurrentSession()
	require.NoError(t, err)
	assert.False(t, ok)
}
