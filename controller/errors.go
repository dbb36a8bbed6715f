// Package controller holds the view-model layer between the service
// client and the screens: session gateway, directory and conversation
// fetchers, the per-thread message controller, and the pure display
// helpers. Everything here is testable without a terminal.
package controller

import (
	"errors"
	"fmt"

	"chatterm/api"
)

// ValidationError is a blank or otherwise unusable form field, caught
// before any network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuthError is a credential or sign-in failure. Message carries the
// service's own wording and is shown to the user verbatim.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// ConflictError is a duplicate user id on sign-up. The screens offer a
// redirect to sign-in instead of a blind retry.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// SignInAfterSignUpError means the account was created but the chained
// sign-in failed; the user should sign in manually.
type SignInAfterSignUpError struct {
	Err error
}

func (e *SignInAfterSignUpError) Error() string {
	return fmt.Sprintf("account created but sign-in failed: %v", e.Err)
}

func (e *SignInAfterSignUpError) Unwrap() error { return e.Err }

// FetchError is any list or read failure. Screens degrade to fallback
// data where one is defined, otherwise to an empty state.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch failed: %v", e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

// SendError is a message submission failure. The compose text is
// preserved so the user can retry by hand; there is no automatic
// backoff.
type SendError struct {
	Err error
}

func (e *SendError) Error() string { return fmt.Sprintf("send failed: %v", e.Err) }

func (e *SendError) Unwrap() error { return e.Err }

// remoteMessage extracts the service's own error wording when there is
// one.
func remoteMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
