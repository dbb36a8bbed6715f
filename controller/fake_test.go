package controller

import (
	"sync"

	"chatterm/api"
	"chatterm/models"
)

// fakeService is an in-memory stand-in for the hosted service. Each
// method delegates to an optional function field and counts its calls.
type fakeService struct {
	mu sync.Mutex

	signInFn    func(uid string) (models.Session, error)
	signUpFn    func(uid, name string) (models.Session, error)
	signOutFn   func() error
	currentFn   func() (models.Session, bool, error)
	listUsersFn func(limit int) ([]models.Contact, error)
	listConvsFn func(limit int) ([]models.Conversation, error)
	listMsgsFn  func(uid string, limit int) ([]models.Message, error)
	sendFn      func(uid, text string) (models.Message, error)

	signInCalls    int
	signUpCalls    int
	signOutCalls   int
	currentCalls   int
	listUsersCalls int
	listConvsCalls int
	listMsgsCalls  int
	sendCalls      int

	handlers map[string]api.MessageHandler
}

var _ api.Service = (*fakeService)(nil)

func newFakeService() *fakeService {
	return &fakeService{handlers: make(map[string]api.MessageHandler)}
}

func (f *fakeService) Init() error { return nil }

func (f *fakeService) SignIn(uid string) (models.Session, error) {
	f.mu.Lock()
	f.signInCalls++
	fn := f.signInFn
	f.mu.Unlock()
	if fn != nil {
		return fn(uid)
	}
	return models.Session{UID: uid}, nil
}

func (f *fakeService) SignUp(uid, name string) (models.Session, error) {
	f.mu.Lock()
	f.signUpCalls++
	fn := f.signUpFn
	f.mu.Unlock()
	if fn != nil {
		return fn(uid, name)
	}
	return models.Session{UID: uid, Name: name}, nil
}

func (f *fakeService) SignOut() error {
	f.mu.Lock()
	f.signOutCalls++
	fn := f.signOutFn
	f.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return nil
}

func (f *fakeService) CurrentSession() (models.Session, bool, error) {
	f.mu.Lock()
	f.currentCalls++
	fn := f.currentFn
	f.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return models.Session{}, false, nil
}

func (f *fakeService) ListUsers(limit int) ([]models.Contact, error) {
	f.mu.Lock()
	f.listUsersCalls++
	fn := f.listUsersFn
	f.mu.Unlock()
	if fn != nil {
		return fn(limit)
	}
	return nil, nil
}

func (f *fakeService) ListConversations(limit int) ([]models.Conversation, error) {
	f.mu.Lock()
	f.listConvsCalls++
	fn := f.listConvsFn
	f.mu.Unlock()
	if fn != nil {
		return fn(limit)
	}
	return nil, nil
}

func (f *fakeService) ListMessages(uid string, limit int) ([]models.Message, error) {
	f.mu.Lock()
	f.listMsgsCalls++
	fn := f.listMsgsFn
	f.mu.Unlock()
	if fn != nil {
		return fn(uid, limit)
	}
	return nil, nil
}

func (f *fakeService) SendTextMessage(uid, text string) (models.Message, error) {
	f.mu.Lock()
	f.sendCalls++
	fn := f.sendFn
	f.mu.Unlock()
	if fn != nil {
		return fn(uid, text)
	}
	return models.Message{ID: "sent", Receiver: uid, Text: text}, nil
}

func (f *fakeService) Subscribe(handlerID string, h api.MessageHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[handlerID] = h
}

func (f *fakeService) Unsubscribe(handlerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, handlerID)
}

// push delivers a message to every registered handler, like the
// realtime feed does.
func (f *fakeService) push(m models.Message) {
	f.mu.Lock()
	hs := make([]api.MessageHandler, 0, len(f.handlers))
	for _, h := range f.handlers {
		hs = append(hs, h)
	}
	f.mu.Unlock()
	for _, h := range hs {
		h(m)
	}
}

func (f *fakeService) handlerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

func (f *fakeService) calls(counter *int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *counter
}
