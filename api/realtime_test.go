package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chatterm/models"
)

// pushServer upgrades each connection and immediately writes the given
// frames, then holds the socket open until the client goes away.
func pushServer(t *testing.T, frames ...string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitMessage(t *testing.T, ch <-chan models.Message) models.Message {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pushed message")
		return models.Message{}
	}
}

func assertNoMessage(t *testing.T, ch <-chan models.Message) {
	t.Helper()
	select {
	case m := <-ch:
		t.Fatalf("unexpected pushed message %q", m.Text)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFeedDeliversTextMessages(t *testing.T) {
	url := pushServer(t,
		`{"type":"presence","user":{"uid":"bob"}}`,
		`not even json`,
		`{"type":"message.text","message":{"id":"m1","sender":{"uid":"bob"},"text":"hi"}}`,
	)

	f := newFeed(zap.NewNop())
	defer f.close()

	got := make(chan models.Message, 4)
	f.subscribe("sub-1", func(m models.Message) { got <- m })
	require.NoError(t, f.connect(url, "testapp"))

	// Presence and undecodable frames are dropped; only the text
	// message reaches the handler.
	m := waitMessage(t, got)
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "bob", m.Sender.UID)
	assertNoMessage(t, got)
}

func TestFeedUnsubscribeStopsDelivery(t *testing.T) {
	url := pushServer(t,
		`{"type":"message.text","message":{"id":"m1","sender":{"uid":"bob"},"text":"hi"}}`,
	)

	f := newFeed(zap.NewNop())
	defer f.close()

	got := make(chan models.Message, 4)
	f.subscribe("sub-1", func(m models.Message) { got <- m })
	require.NoError(t, f.connect(url, "testapp"))
	waitMessage(t, got)

	// Handlers survive reconnects, but an unsubscribed handler must
	// not see the push delivered on the next connection.
	f.unsubscribe("sub-1")
	require.NoError(t, f.connect(url, "testapp"))
	assertNoMessage(t, got)
}

func TestFeedMalformedMessageDropped(t *testing.T) {
	url := pushServer(t,
		`{"type":"message.text","message":{"text":"no id or sender"}}`,
		`{"type":"message.text","message":{"id":"m2","sender":{"uid":"bob"},"text":"ok"}}`,
	)

	f := newFeed(zap.NewNop())
	defer f.close()

	got := make(chan models.Message, 4)
	f.subscribe("sub-1", func(m models.Message) { got <- m })
	require.NoError(t, f.connect(url, "testapp"))

	m := waitMessage(t, got)
	assert.Equal(t, "m2", m.ID)
	assertNoMessage(t, got)
}
