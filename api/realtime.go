package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chatterm/models"
)

// Realtime envelope types pushed by the service.
const (
	pushTypeTextMessage = "message.text"
	pushTypePresence    = "presence"
)

const (
	feedWriteWait    = 10 * time.Second
	feedPongWait     = 60 * time.Second
	feedPingInterval = 30 * time.Second
)

type pushEnvelope struct {
	Type    string      `json:"type"`
	Message wireMessage `json:"message"`
}

// feed is the websocket push channel. Handlers are registered by id
// and survive reconnects; a feed with no open socket still accepts
// subscriptions and simply delivers nothing.
type feed struct {
	log *zap.Logger

	mu       sync.Mutex
	conn     *websocket.Conn
	done     chan struct{}
	handlers map[string]MessageHandler
}

func newFeed(log *zap.Logger) *feed {
	return &feed{
		log:      log,
		handlers: make(map[string]MessageHandler),
	}
}

// connect dials the realtime endpoint and starts the read loop. An
// existing connection is torn down first.
func (f *feed) connect(wsURL, appID string) error {
	f.close()

	header := http.Header{}
	header.Set("X-App-ID", appID)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	f.mu.Lock()
	f.conn = conn
	f.done = done
	f.mu.Unlock()

	go f.readLoop(conn, done)
	go f.pingLoop(conn, done)
	return nil
}

// close tears down the socket but keeps registered handlers.
func (f *feed) close() {
	f.mu.Lock()
	conn, done := f.conn, f.done
	f.conn, f.done = nil, nil
	f.mu.Unlock()

	if done != nil {
		close(done)
	}
	if conn != nil {
		conn.Close()
	}
}

func (f *feed) subscribe(handlerID string, h MessageHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[handlerID] = h
}

func (f *feed) unsubscribe(handlerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, handlerID)
}

// readLoop decodes pushed envelopes and dispatches text messages to
// the registered handlers, in read order.
func (f *feed) readLoop(conn *websocket.Conn, done chan struct{}) {
	conn.SetReadDeadline(time.Now().Add(feedPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(feedPongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					f.log.Warn("realtime feed closed", zap.Error(err))
				}
			}
			return
		}

		var env pushEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			f.log.Warn("dropping undecodable push", zap.Error(err))
			continue
		}
		if env.Type != pushTypeTextMessage {
			continue
		}
		msg, ok := env.Message.message()
		if !ok {
			f.log.Warn("dropping malformed pushed message")
			continue
		}
		f.dispatch(msg)
	}
}

func (f *feed) dispatch(msg models.Message) {
	f.mu.Lock()
	handlers := make([]MessageHandler, 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(msg)
	}
}

func (f *feed) pingLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(feedPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
