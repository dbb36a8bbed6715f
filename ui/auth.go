package ui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"chatterm/controller"
)

func newAuthForm(title string) *tview.Form {
	form := tview.NewForm()
	form.SetBackgroundColor(ColorBg)
	form.SetFieldBackgroundColor(ColorBgField)
	form.SetFieldTextColor(ColorFg)
	form.SetLabelColor(ColorHighlight)
	form.SetButtonBackgroundColor(ColorBgButton)
	form.SetButtonTextColor(ColorTitle)
	form.SetBorder(true)
	form.SetBorderColor(ColorBorder)
	form.SetTitle(title)
	form.SetTitleColor(ColorTitle)
	return form
}

// centerModal wraps a form plus status/hint lines into a centered
// modal-like container.
func centerModal(form *tview.Form, extra tview.Primitive, width, height int) tview.Primitive {
	formFlex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true)
	if extra != nil {
		formFlex.AddItem(extra, 3, 0, false)
	}

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(formFlex, width, 0, true).
			AddItem(nil, 0, 1, false), height, 0, true).
		AddItem(nil, 0, 1, false)
}

// showLoginPage shows the sign-in form. prefill carries a uid over
// from the signup screen.
func (a *App) showLoginPage(prefill string) {
	a.pages.RemovePage("signup")

	form := newAuthForm(" chatterm ")

	statusText := tview.NewTextView()
	statusText.SetBackgroundColor(ColorBg)
	statusText.SetTextColor(tcell.ColorRed)
	statusText.SetTextAlign(tview.AlignCenter)
	statusText.SetDynamicColors(true)
	statusText.SetText("[gray]Test users: superhero1, superhero2, superhero3, superhero4[-]")

	uidField := tview.NewInputField()
	uidField.SetLabel("User ID: ")
	uidField.SetFieldWidth(30)
	uidField.SetText(prefill)
	form.AddFormItem(uidField)

	inFlight := false

	form.AddButton("Login", func() {
		if inFlight {
			return
		}
		uid := uidField.GetText()
		inFlight = true
		statusText.SetText("Logging in...")

		go func() {
			session, err := a.session.SignIn(uid)
			a.app.QueueUpdateDraw(func() {
				inFlight = false
				if err != nil {
					statusText.SetText(fmt.Sprintf("[red]%s[-]", tview.Escape(err.Error())))
					return
				}
				a.log.Info("login successful", zap.String("uid", session.UID))
				a.showMainScreen()
			})
		}()
	})

	form.AddButton("Sign up", func() {
		if inFlight {
			return
		}
		a.showSignupPage()
	})

	form.AddButton("Quit", func() {
		a.quit()
	})

	a.pages.AddPage("login", centerModal(form, statusText, 58, 13), true, true)
	a.app.SetFocus(form)
}

func (a *App) showSignupPage() {
	a.pages.RemovePage("login")

	form := newAuthForm(" Create Account ")

	statusText := tview.NewTextView()
	statusText.SetBackgroundColor(ColorBg)
	statusText.SetTextColor(tcell.ColorRed)
	statusText.SetTextAlign(tview.AlignCenter)
	statusText.SetDynamicColors(true)

	uidField := tview.NewInputField()
	uidField.SetLabel("User ID: ")
	uidField.SetFieldWidth(30)
	form.AddFormItem(uidField)

	nameField := tview.NewInputField()
	nameField.SetLabel("Name: ")
	nameField.SetFieldWidth(30)
	form.AddFormItem(nameField)

	inFlight := false

	form.AddButton("Sign Up", func() {
		if inFlight {
			return
		}
		uid := uidField.GetText()
		name := nameField.GetText()
		inFlight = true
		statusText.SetText("Creating account...")

		go func() {
			session, err := a.session.SignUp(uid, name)
			a.app.QueueUpdateDraw(func() {
				inFlight = false
				switch {
				case err == nil:
					a.log.Info("signup successful", zap.String("uid", session.UID))
					a.showMainScreen()
				case isConflict(err):
					statusText.SetText("")
					a.showSignupConflictDialog(uid)
				case isSignInAfterSignUp(err):
					statusText.SetText("")
					a.showSignupNeedsLoginDialog(uid)
				default:
					statusText.SetText(fmt.Sprintf("[red]%s[-]", tview.Escape(err.Error())))
				}
			})
		}()
	})

	form.AddButton("Back to Login", func() {
		if inFlight {
			return
		}
		a.showLoginPage("")
	})

	a.pages.AddPage("signup", centerModal(form, statusText, 58, 14), true, true)
	a.app.SetFocus(form)
}

// showSignupConflictDialog offers sign-in instead of a blind retry
// when the user id is already taken.
func (a *App) showSignupConflictDialog(uid string) {
	modal := tview.NewModal()
	modal.SetText("This User ID already exists. Please try logging in instead.")
	modal.SetBackgroundColor(ColorBg)
	modal.SetTextColor(ColorFg)
	modal.SetButtonBackgroundColor(ColorBgButton)
	modal.SetButtonTextColor(ColorTitle)
	modal.AddButtons([]string{"Go to Login", "Try Again"})
	modal.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
		a.pages.RemovePage("dialog")
		if buttonLabel == "Go to Login" {
			a.showLoginPage(uid)
		}
	})
	a.pages.AddPage("dialog", modal, true, true)
}

// showSignupNeedsLoginDialog covers the created-but-not-signed-in
// case: the account exists, the user signs in manually.
func (a *App) showSignupNeedsLoginDialog(uid string) {
	modal := tview.NewModal()
	modal.SetText("Account created but login failed. Please try logging in manually.")
	modal.SetBackgroundColor(ColorBg)
	modal.SetTextColor(ColorFg)
	modal.SetButtonBackgroundColor(ColorBgButton)
	modal.SetButtonTextColor(ColorTitle)
	modal.AddButtons([]string{"OK"})
	modal.SetDoneFunc(func(int, string) {
		a.pages.RemovePage("dialog")
		a.showLoginPage(uid)
	})
	a.pages.AddPage("dialog", modal, true, true)
}

func isConflict(err error) bool {
	var cerr *controller.ConflictError
	return errors.As(err, &cerr)
}

func isSignInAfterSignUp(err error) bool {
	var serr *controller.SignInAfterSignUpError
	return errors.As(err, &serr)
}
