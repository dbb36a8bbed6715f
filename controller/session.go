package controller

import (
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"chatterm/api"
	"chatterm/models"
)

// SessionGateway wraps the sign-in/sign-up/sign-out surface of the
// service and keeps the one cached copy of the active session that the
// screens share. Reads see the caller's own sign-in immediately
// instead of re-querying the service per screen.
type SessionGateway struct {
	svc api.Service
	log *zap.Logger

	mu      sync.RWMutex
	current *models.Session
}

func NewSessionGateway(svc api.Service, log *zap.Logger) *SessionGateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionGateway{svc: svc, log: log}
}

// SignIn validates the uid locally, then exchanges it for a session.
// A blank uid never reaches the network.
func (g *SessionGateway) SignIn(uid string) (models.Session, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return models.Session{}, &ValidationError{Msg: "Please enter a valid User ID"}
	}

	session, err := g.svc.SignIn(uid)
	if err != nil {
		g.log.Warn("sign-in failed", zap.String("uid", uid), zap.Error(err))
		return models.Session{}, &AuthError{Message: remoteMessage(err)}
	}

	g.setCurrent(session)
	return session, nil
}

// SignUp creates the user record and chains into SignIn. A duplicate
// uid comes back as *ConflictError; a created account whose sign-in
// failed comes back as *SignInAfterSignUpError.
func (g *SessionGateway) SignUp(uid, name string) (models.Session, error) {
	uid = strings.TrimSpace(uid)
	name = strings.TrimSpace(name)
	if uid == "" || name == "" {
		return models.Session{}, &ValidationError{Msg: "Please fill in all fields"}
	}

	if _, err := g.svc.SignUp(uid, name); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Code == api.CodeAlreadyExists {
			g.log.Info("sign-up conflict", zap.String("uid", uid))
			return models.Session{}, &ConflictError{Message: "This User ID already exists. Please try logging in instead."}
		}
		g.log.Warn("sign-up failed", zap.String("uid", uid), zap.Error(err))
		return models.Session{}, &AuthError{Message: remoteMessage(err)}
	}

	session, err := g.SignIn(uid)
	if err != nil {
		return models.Session{}, &SignInAfterSignUpError{Err: err}
	}
	return session, nil
}

// SignOut invalidates the remote session when there is one. It never
// fails: whatever the service says, the local session is gone and the
// caller goes back to the sign-in screen.
func (g *SessionGateway) SignOut() {
	if _, ok, err := g.svc.CurrentSession(); err == nil && ok {
		if err := g.svc.SignOut(); err != nil {
			g.log.Warn("remote sign-out failed", zap.Error(err))
		}
	}

	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()
}

// Current returns the active session. The cached copy wins; without
// one the gateway reads through to the service and caches the result.
func (g *SessionGateway) Current() (models.Session, bool) {
	g.mu.RLock()
	cached := g.current
	g.mu.RUnlock()
	if cached != nil {
		return *cached, true
	}

	session, ok, err := g.svc.CurrentSession()
	if err != nil {
		g.log.Warn("current session query failed", zap.Error(err))
		return models.Session{}, false
	}
	if !ok {
		return models.Session{}, false
	}
	g.setCurrent(session)
	return session, true
}

func (g *SessionGateway) setCurrent(s models.Session) {
	g.mu.Lock()
	g.current = &s
	g.mu.Unlock()
}
