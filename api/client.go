package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"chatterm/models"
)

// Config identifies the app against the hosted service.
type Config struct {
	AppID   string
	Region  string
	AuthKey string

	// PresenceSubscription asks the service to push presence for all
	// users during the init handshake.
	PresenceSubscription bool

	// BaseURL overrides the derived API endpoint. SocketURL overrides
	// the derived realtime endpoint.
	BaseURL   string
	SocketURL string
}

// apiBase returns the REST base URL for the app, without trailing
// slash.
func (c Config) apiBase() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s.api-%s.chatterm.io/v1", c.AppID, c.Region)
}

// socketBase returns the realtime feed base URL.
func (c Config) socketBase() string {
	if c.SocketURL != "" {
		return strings.TrimSuffix(c.SocketURL, "/")
	}
	base := c.apiBase()
	base = strings.Replace(base, "https://", "wss://", 1)
	return strings.Replace(base, "http://", "ws://", 1)
}

// Client talks to the hosted chat service over HTTP plus a websocket
// realtime feed. It implements Service.
type Client struct {
	cfg   Config
	httpc *http.Client
	log   *zap.Logger

	feed *feed

	mu    sync.Mutex
	token string
}

var _ Service = (*Client)(nil)

// NewClient creates a service client. Nothing touches the network
// until Init.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 15 * time.Second},
		log:   log,
		feed:  newFeed(log),
	}
}

type errorEnvelope struct {
	Err struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do runs one request against the service and decodes the response
// into out (when out is non-nil and the response has a body). Non-2xx
// responses come back as *Error.
func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.cfg.apiBase()+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-ID", c.cfg.AppID)
	c.mu.Lock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.Unlock()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env errorEnvelope
		if decErr := json.NewDecoder(resp.Body).Decode(&env); decErr == nil && env.Err.Code != "" {
			return &Error{Code: env.Err.Code, Message: env.Err.Message}
		}
		return &Error{Code: CodeInternal, Message: fmt.Sprintf("%s %s: %s", method, path, resp.Status)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Init performs the app handshake with the service.
func (c *Client) Init() error {
	body := map[string]any{
		"app_id":                c.cfg.AppID,
		"region":                c.cfg.Region,
		"presence_subscription": c.cfg.PresenceSubscription,
	}
	if err := c.do(http.MethodPost, "/app/init", body, nil); err != nil {
		return err
	}
	return nil
}

type sessionEnvelope struct {
	Token string   `json:"token"`
	User  wireUser `json:"user"`
}

// SignIn exchanges uid + auth key for a session and brings up the
// realtime feed. Feed failures are logged, not fatal: the
// request/response surface still works without pushes.
func (c *Client) SignIn(uid string) (models.Session, error) {
	body := map[string]string{"uid": uid, "auth_key": c.cfg.AuthKey}
	var env sessionEnvelope
	if err := c.do(http.MethodPost, "/sessions", body, &env); err != nil {
		return models.Session{}, err
	}
	session, ok := env.User.session()
	if !ok {
		return models.Session{}, &Error{Code: CodeInternal, Message: "service returned a malformed session"}
	}

	c.mu.Lock()
	c.token = env.Token
	c.mu.Unlock()

	if err := c.feed.connect(c.cfg.socketBase()+"/realtime?token="+url.QueryEscape(env.Token), c.cfg.AppID); err != nil {
		c.log.Warn("realtime feed unavailable", zap.Error(err))
	}
	return session, nil
}

// SignUp creates a user record. The caller chains into SignIn.
func (c *Client) SignUp(uid, name string) (models.Session, error) {
	body := map[string]string{"uid": uid, "name": name, "auth_key": c.cfg.AuthKey}
	var env sessionEnvelope
	if err := c.do(http.MethodPost, "/users", body, &env); err != nil {
		return models.Session{}, err
	}
	session, ok := env.User.session()
	if !ok {
		return models.Session{}, &Error{Code: CodeInternal, Message: "service returned a malformed user record"}
	}
	return session, nil
}

// SignOut invalidates the session and tears down the realtime feed.
func (c *Client) SignOut() error {
	err := c.do(http.MethodDelete, "/sessions/current", nil, nil)
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	c.feed.close()
	return err
}

// CurrentSession returns the active session, if any. Without a local
// token there is nothing to query.
func (c *Client) CurrentSession() (models.Session, bool, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == "" {
		return models.Session{}, false, nil
	}

	var env sessionEnvelope
	if err := c.do(http.MethodGet, "/sessions/current", nil, &env); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Code == CodeNotFound {
			return models.Session{}, false, nil
		}
		return models.Session{}, false, err
	}
	session, ok := env.User.session()
	if !ok {
		return models.Session{}, false, nil
	}
	return session, true, nil
}

// ListUsers returns up to limit directory entries.
func (c *Client) ListUsers(limit int) ([]models.Contact, error) {
	var env struct {
		Users []wireUser `json:"users"`
	}
	if err := c.do(http.MethodGet, "/users?limit="+strconv.Itoa(limit), nil, &env); err != nil {
		return nil, err
	}
	return decodeContacts(env.Users), nil
}

// ListConversations returns up to limit conversations, each with its
// last message, ordered by the service.
func (c *Client) ListConversations(limit int) ([]models.Conversation, error) {
	var env struct {
		Conversations []wireConversation `json:"conversations"`
	}
	if err := c.do(http.MethodGet, "/conversations?limit="+strconv.Itoa(limit), nil, &env); err != nil {
		return nil, err
	}
	return decodeConversations(env.Conversations), nil
}

// ListMessages returns up to limit messages with the counterpart,
// oldest first as the service orders them.
func (c *Client) ListMessages(counterpartUID string, limit int) ([]models.Message, error) {
	path := "/messages?with=" + url.QueryEscape(counterpartUID) + "&limit=" + strconv.Itoa(limit)
	var env struct {
		Messages []wireMessage `json:"messages"`
	}
	if err := c.do(http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return decodeMessages(env.Messages), nil
}

// SendTextMessage submits a text message and returns the stored copy.
func (c *Client) SendTextMessage(counterpartUID, text string) (models.Message, error) {
	body := map[string]string{"receiver": counterpartUID, "text": text}
	var env struct {
		Message wireMessage `json:"message"`
	}
	if err := c.do(http.MethodPost, "/messages", body, &env); err != nil {
		return models.Message{}, err
	}
	msg, ok := env.Message.message()
	if !ok {
		return models.Message{}, &Error{Code: CodeInternal, Message: "service returned a malformed message"}
	}
	return msg, nil
}

// Subscribe registers a push handler under handlerID.
func (c *Client) Subscribe(handlerID string, h MessageHandler) {
	c.feed.subscribe(handlerID, h)
}

// Unsubscribe removes the push handler registered under handlerID.
func (c *Client) Unsubscribe(handlerID string) {
	c.feed.unsubscribe(handlerID)
}
