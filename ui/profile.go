package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const profileKeysHint = " F2:Chats | F3:Contacts | F4:Profile | F8:Logout | F10:Quit "

// showProfilePage builds the Profile tab from the active session.
func (a *App) showProfilePage() {
	a.removeTabPages()
	a.fetchGen++
	gen := a.fetchGen

	view := tview.NewTextView()
	view.SetBorder(true)
	view.SetBorderColor(ColorBorder)
	view.SetBackgroundColor(ColorBg)
	view.SetTitle(" Profile ")
	view.SetTitleColor(ColorTitle)
	view.SetTextColor(ColorFg)
	view.SetDynamicColors(true)
	view.SetText("\n Loading profile...")

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(view, 0, 1, true).
		AddItem(newStatusBar(profileKeysHint), 1, 0, false)
	flex.SetBackgroundColor(ColorBg)

	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyF8 {
			a.showLogoutDialog()
			return nil
		}
		return a.handleTabKeys(event, a.showProfilePage)
	})

	a.pages.AddPage("profile", flex, true, true)
	a.app.SetFocus(view)

	go func() {
		session, ok := a.session.Current()
		a.app.QueueUpdateDraw(func() {
			if gen != a.fetchGen {
				return
			}
			if !ok {
				view.SetText("\n No active session.\n\n [gray]Press F8 to return to login.[-]")
				return
			}
			status := session.Status
			if status == "" {
				status = "n/a"
			}
			view.SetText(fmt.Sprintf(
				"\n [white]Name:[-]   %s\n [white]UID:[-]    %s\n [white]Status:[-] %s\n",
				tview.Escape(session.DisplayName()),
				tview.Escape(session.UID),
				tview.Escape(status),
			))
		})
	}()
}

// showLogoutDialog confirms, then signs out. Sign-out is fail-open:
// whatever the service answers, the user lands on the login screen.
func (a *App) showLogoutDialog() {
	modal := tview.NewModal()
	modal.SetText("Are you sure you want to logout?")
	modal.SetBackgroundColor(ColorBg)
	modal.SetTextColor(ColorFg)
	modal.SetButtonBackgroundColor(ColorBgButton)
	modal.SetButtonTextColor(ColorTitle)
	modal.AddButtons([]string{"Logout", "Cancel"})
	modal.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
		a.pages.RemovePage("dialog")
		if buttonLabel != "Logout" {
			return
		}
		go func() {
			a.session.SignOut()
			a.app.QueueUpdateDraw(func() {
				a.leaveMainScreen()
			})
		}()
	})
	a.pages.AddPage("dialog", modal, true, true)
}
