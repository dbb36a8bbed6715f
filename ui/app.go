// Package ui holds the tview screens: auth, the conversations /
// contacts / profile tabs, and the chat thread. Screens only render
// view state; all chat semantics live in the controller package and
// the hosted service behind it.
package ui

import (
	"time"

	"github.com/rivo/tview"
	"go.uber.org/zap"

	"chatterm/api"
	"chatterm/controller"
)

// App is the main application.
type App struct {
	app   *tview.Application
	pages *tview.Pages
	svc   api.Service
	log   *zap.Logger

	session   *controller.SessionGateway
	directory *controller.DirectoryFetcher
	convs     *controller.ConversationLister

	// thread is the controller for the open chat screen, nil when no
	// chat is open. The chat widgets live here so push notifications
	// can refresh the open screen.
	thread     *controller.Thread
	chatView   *tview.TextView
	chatInput  *tview.InputField
	chatStatus *tview.TextView

	// fetchGen invalidates list fetches whose screen was left before
	// the result came back.
	fetchGen int
}

// NewApp creates the application around a service client.
func NewApp(svc api.Service, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		svc:       svc,
		log:       log,
		session:   controller.NewSessionGateway(svc, log),
		directory: controller.NewDirectoryFetcher(svc, log),
		convs:     controller.NewConversationLister(svc, log),
	}
}

// Run starts the application. No screen is shown until the service
// handshake resolves; failure unblocks rendering too, so the app never
// freezes on a dead backend.
func (a *App) Run() error {
	a.app = tview.NewApplication()
	a.pages = tview.NewPages()

	splash := tview.NewTextView()
	splash.SetBackgroundColor(ColorBg)
	splash.SetTextColor(ColorFg)
	splash.SetTextAlign(tview.AlignCenter)
	splash.SetText("\n\nConnecting to chat service...")
	a.pages.AddPage("splash", splash, true, true)

	go func() {
		if err := a.svc.Init(); err != nil {
			a.log.Warn("service init failed", zap.Error(err))
		} else {
			a.log.Info("service init completed")
		}
		a.app.QueueUpdateDraw(func() {
			a.pages.RemovePage("splash")
			a.showLoginPage("")
		})
	}()

	return a.app.SetRoot(a.pages, true).EnableMouse(false).Run()
}

// quit leaves the app, giving the remote sign-out a moment but never
// hanging on it.
func (a *App) quit() {
	if a.thread != nil {
		a.thread.Close()
		a.thread = nil
	}
	done := make(chan struct{})
	go func() {
		a.session.SignOut()
		close(done)
	}()
	go func() {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
		a.app.Stop()
	}()
}
