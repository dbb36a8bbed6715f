package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const tabKeysHint = " F2:Chats | F3:Contacts | F4:Profile | F5:Refresh | F10:Quit "

// showMainScreen enters the authenticated area on the conversations
// tab.
func (a *App) showMainScreen() {
	a.pages.RemovePage("login")
	a.pages.RemovePage("signup")
	a.showConversationsPage()
}

// removeTabPages drops whichever authenticated tab is showing.
func (a *App) removeTabPages() {
	a.pages.RemovePage("home")
	a.pages.RemovePage("contacts")
	a.pages.RemovePage("profile")
}

// leaveMainScreen returns to the sign-in form, dropping every
// authenticated page.
func (a *App) leaveMainScreen() {
	a.fetchGen++
	if a.thread != nil {
		a.thread.Close()
		a.thread = nil
	}
	a.removeTabPages()
	a.pages.RemovePage("chat")
	a.pages.RemovePage("dialog")
	a.showLoginPage("")
}

func newStatusBar(text string) *tview.TextView {
	bar := tview.NewTextView()
	bar.SetDynamicColors(true)
	bar.SetBackgroundColor(ColorBgButton)
	bar.SetTextColor(ColorTitle)
	bar.SetTextAlign(tview.AlignCenter)
	bar.SetText(text)
	return bar
}

// handleTabKeys implements the shared tab navigation. refresh is the
// current tab's F5 action, nil when the tab has none.
func (a *App) handleTabKeys(event *tcell.EventKey, refresh func()) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyF2:
		a.showConversationsPage()
		return nil
	case tcell.KeyF3:
		a.showContactsPage()
		return nil
	case tcell.KeyF4:
		a.showProfilePage()
		return nil
	case tcell.KeyF5:
		if refresh != nil {
			refresh()
		}
		return nil
	case tcell.KeyF10, tcell.KeyEsc:
		a.quit()
		return nil
	}
	return event
}

func newTabList(title string) *tview.List {
	list := tview.NewList()
	list.SetBorder(true)
	list.SetBorderColor(ColorBorder)
	list.SetBackgroundColor(ColorBg)
	list.SetTitle(title)
	list.SetTitleColor(ColorTitle)
	list.SetMainTextColor(ColorFg)
	list.SetMainTextStyle(tcell.StyleDefault.Foreground(ColorFg).Background(ColorBg))
	list.SetSecondaryTextColor(ColorOffline)
	list.SetSelectedTextColor(ColorTitle)
	list.SetSelectedBackgroundColor(ColorBgButton)
	list.SetHighlightFullLine(true)
	return list
}
