package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chatterm/controller"
	"chatterm/models"
)

const chatKeysHint = " Enter:Send | PgUp/PgDn:Scroll | Esc:Back "

// openChat opens the thread screen for one counterpart. The thread
// controller registers its push subscription on creation and releases
// it in closeChat; every exit path goes through closeChat.
func (a *App) openChat(contact models.Contact) {
	if a.thread != nil {
		a.thread.Close()
	}

	a.thread = controller.NewThread(a.svc, a.log, contact, func() {
		a.app.QueueUpdateDraw(a.refreshChatView)
	})

	a.chatView = tview.NewTextView()
	a.chatView.SetBorder(true)
	a.chatView.SetBorderColor(ColorBorder)
	a.chatView.SetBackgroundColor(ColorBg)
	a.chatView.SetTitle(fmt.Sprintf(" %s ", contact.DisplayName()))
	a.chatView.SetTitleColor(ColorTitle)
	a.chatView.SetTextColor(ColorFg)
	a.chatView.SetDynamicColors(true)
	a.chatView.SetScrollable(true)

	a.chatInput = tview.NewInputField()
	a.chatInput.SetLabel("> ")
	a.chatInput.SetFieldWidth(0)
	a.chatInput.SetBackgroundColor(ColorBg)
	a.chatInput.SetFieldBackgroundColor(ColorBgField)
	a.chatInput.SetFieldTextColor(ColorFg)
	a.chatInput.SetLabelColor(ColorHighlight)
	a.chatInput.SetBorder(true)
	a.chatInput.SetBorderColor(ColorBorder)
	a.chatInput.SetTitle(" Message ")
	a.chatInput.SetTitleColor(ColorTitle)

	a.chatInput.SetChangedFunc(func(text string) {
		if a.thread != nil {
			a.thread.SetCompose(text)
		}
	})
	a.chatInput.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter || a.thread == nil {
			return
		}
		thread := a.thread
		go func() {
			// Send failures surface through the status line; the
			// compose field keeps the text for a manual retry.
			_ = thread.Send()
		}()
	})

	a.chatStatus = newStatusBar(chatKeysHint)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.chatView, 0, 1, false).
		AddItem(a.chatInput, 3, 0, true).
		AddItem(a.chatStatus, 1, 0, false)
	flex.SetBackgroundColor(ColorBg)

	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			a.closeChat()
			return nil
		case tcell.KeyPgUp:
			row, col := a.chatView.GetScrollOffset()
			a.chatView.ScrollTo(row-10, col)
			return nil
		case tcell.KeyPgDn:
			row, col := a.chatView.GetScrollOffset()
			a.chatView.ScrollTo(row+10, col)
			return nil
		}
		return event
	})

	a.pages.AddPage("chat", flex, true, true)
	a.app.SetFocus(a.chatInput)
	a.refreshChatView()

	thread := a.thread
	go thread.Load()
}

// closeChat tears the thread screen down and releases its push
// subscription, then returns to the conversations tab (which
// re-fetches).
func (a *App) closeChat() {
	if a.thread != nil {
		a.thread.Close()
		a.thread = nil
	}
	a.chatView = nil
	a.chatInput = nil
	a.chatStatus = nil
	a.pages.RemovePage("chat")
	a.showConversationsPage()
}

func (a *App) refreshChatView() {
	if a.thread == nil || a.chatView == nil {
		return
	}

	var current *models.Session
	if s, ok := a.session.Current(); ok {
		current = &s
	}

	_, _, width, _ := a.chatView.GetInnerRect()
	if width < 10 {
		width = 80
	}

	var sb strings.Builder
	switch {
	case a.thread.State() == controller.ThreadLoading:
		sb.WriteString("[gray]Loading messages...[-]\n")
	case len(a.thread.Messages()) == 0:
		sb.WriteString("[gray]No messages yet. Send a message to start the conversation.[-]\n")
	default:
		for _, msg := range a.thread.Messages() {
			sb.WriteString(renderMessage(msg, msg.OwnedBy(current), width))
		}
	}
	a.chatView.SetText(sb.String())
	a.chatView.ScrollToEnd()

	// Status line: sending indicator beats the send-failure notice
	// beats the key help.
	switch {
	case a.thread.Sending():
		a.chatStatus.SetText(" Sending... ")
	case a.thread.SendErrorText() != "":
		a.chatStatus.SetText(fmt.Sprintf("[red] %s [-]", a.thread.SendErrorText()))
	default:
		a.chatStatus.SetText(chatKeysHint)
	}

	// The controller owns the compose text; after a successful send it
	// comes back empty and the field follows.
	if a.chatInput.GetText() != a.thread.Compose() {
		a.chatInput.SetText(a.thread.Compose())
	}
}

// renderMessage lays one message out on its own line: own messages
// right-aligned, the counterpart's on the left, each with its clock
// stamp.
func renderMessage(msg models.Message, own bool, width int) string {
	stamp := formatClock(msg.SentAt)
	if own {
		visible := len(msg.Text)
		if stamp != "" {
			visible += len(stamp) + 1
		}
		pad := width - visible
		if pad < 0 {
			pad = 0
		}
		if stamp != "" {
			return fmt.Sprintf("%s[white]%s[-] [gray]%s[-]\n", strings.Repeat(" ", pad), tview.Escape(msg.Text), stamp)
		}
		return fmt.Sprintf("%s[white]%s[-]\n", strings.Repeat(" ", pad), tview.Escape(msg.Text))
	}
	if stamp != "" {
		return fmt.Sprintf("[gray]%s[-] [yellow]%s[-]\n", stamp, tview.Escape(msg.Text))
	}
	return fmt.Sprintf("[yellow]%s[-]\n", tview.Escape(msg.Text))
}
