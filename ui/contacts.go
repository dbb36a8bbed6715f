package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chatterm/controller"
)

// showContactsPage builds the Contacts tab. The directory fetcher
// guarantees a non-empty list (samples stand in for an empty or failed
// remote directory), so there is no empty state here.
func (a *App) showContactsPage() {
	a.removeTabPages()
	a.fetchGen++
	gen := a.fetchGen

	list := newTabList(" Contacts ")

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(list, 0, 1, true).
		AddItem(newStatusBar(tabKeysHint), 1, 0, false)
	flex.SetBackgroundColor(ColorBg)

	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		return a.handleTabKeys(event, a.showContactsPage)
	})

	a.pages.AddPage("contacts", flex, true, true)
	a.app.SetFocus(list)

	go func() {
		contacts := a.directory.ListContacts(controller.DefaultContactLimit)
		a.app.QueueUpdateDraw(func() {
			if gen != a.fetchGen {
				return
			}
			list.Clear()
			for _, contact := range contacts {
				contact := contact
				var main, secondary string
				if contact.Online() {
					main = fmt.Sprintf("[green]●[-] %s", tview.Escape(contact.DisplayName()))
					secondary = "Online"
				} else {
					main = fmt.Sprintf("[gray]○[-] %s", tview.Escape(contact.DisplayName()))
					secondary = "Enter to chat"
				}
				list.AddItem(main, secondary, 0, func() {
					a.openChat(contact)
				})
			}
		})
	}()
}
