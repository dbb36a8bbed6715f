package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chatterm/controller"
)

// showConversationsPage builds the Chats tab and kicks off a fresh
// fetch. The list is re-fetched on every visit; there is no
// incremental sync.
func (a *App) showConversationsPage() {
	a.removeTabPages()
	a.fetchGen++
	gen := a.fetchGen

	list := newTabList(" Chats ")

	inner := tview.NewPages()
	loading := tview.NewTextView()
	loading.SetBackgroundColor(ColorBg)
	loading.SetTextColor(ColorFg)
	loading.SetTextAlign(tview.AlignCenter)
	loading.SetText("\n\nLoading conversations...")

	empty := tview.NewTextView()
	empty.SetBackgroundColor(ColorBg)
	empty.SetTextColor(ColorFg)
	empty.SetTextAlign(tview.AlignCenter)
	empty.SetDynamicColors(true)
	empty.SetBorder(true)
	empty.SetBorderColor(ColorBorder)
	empty.SetTitle(" Chats ")
	empty.SetTitleColor(ColorTitle)

	inner.AddPage("loading", loading, true, true)
	inner.AddPage("list", list, true, false)
	inner.AddPage("empty", empty, true, false)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(inner, 0, 1, true).
		AddItem(newStatusBar(tabKeysHint), 1, 0, false)
	flex.SetBackgroundColor(ColorBg)

	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		return a.handleTabKeys(event, a.showConversationsPage)
	})

	a.pages.AddPage("home", flex, true, true)
	a.app.SetFocus(list)

	go a.loadConversations(gen, list, empty, inner)
}

func (a *App) loadConversations(gen int, list *tview.List, empty *tview.TextView, inner *tview.Pages) {
	convs, err := a.convs.ListConversations(controller.DefaultConversationLimit)

	a.app.QueueUpdateDraw(func() {
		// The screen was left (or re-entered) while this fetch was in
		// flight; its result belongs to nobody.
		if gen != a.fetchGen {
			return
		}

		if err != nil || len(convs) == 0 {
			text := "\n\nNo conversations yet\n\nStart a chat with someone from your contacts\n\n[gray]Press F3 to open Contacts[-]"
			if err != nil {
				text = "\n\nCould not load conversations\n\n[gray]Press F5 to retry, or F3 to open Contacts[-]"
			}
			empty.SetText(text)
			inner.SwitchToPage("empty")
			return
		}

		now := time.Now()
		list.Clear()
		for _, conv := range convs {
			conv := conv
			main := tview.Escape(conv.Title())
			if label := controller.LastMessageLabel(conv.LastSentAt(), now); label != "" {
				main += fmt.Sprintf("  [gray]%s[-]", label)
			}
			if conv.Unread > 0 {
				main += fmt.Sprintf("  [red](%d)[-]", conv.Unread)
			}
			list.AddItem(main, tview.Escape(conv.LastText()), 0, func() {
				a.openChat(conv.With)
			})
		}
		inner.SwitchToPage("list")
	})
}
