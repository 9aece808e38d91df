package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes used across the app. Services attach one of these to every
// expected business failure so the http boundary can map it to a response
// without inspecting message strings.
const (
	// EINVALID means the submitted data failed validation. The messages
	// carried by the error are meant to be shown to the user.
	EINVALID = "invalid"
	// ENOTFOUND means the requested resource does not exist, or the
	// identifier used to request it is malformed.
	ENOTFOUND = "not_found"
	// ENOTOWNER means the acting user is authenticated, but is not the
	// owner of the resource they are trying to change.
	ENOTOWNER = "not_owner"
	// EINTERNAL means something unexpected went wrong in the persistence
	// layer. Its detail is logged, never shown to the user.
	EINTERNAL = "internal"
)

// GenericMessage is what the user gets to see whenever an error carries no
// user-facing messages of its own.
const GenericMessage = "Sorry, something was wrong, please try again later."

// Error is the application error type. Code is one of the constants above.
// Messages holds one or more human-readable messages. Validation errors
// accumulate every message that applies instead of stopping at the first.
type Error struct {
	Code     string
	Messages []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, strings.Join(e.Messages, "; "))
}

// Errorf builds an Error with a single formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:     code,
		Messages: []string{fmt.Sprintf(format, args...)},
	}
}

// Invalid builds an EINVALID Error carrying every message that applies.
func Invalid(messages ...string) *Error {
	return &Error{
		Code:     EINVALID,
		Messages: messages,
	}
}

// ErrorCode returns the code of an application error, or EINTERNAL for any
// other non-nil error. Unexpected faults are never classified as business
// conditions.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessages returns the user-facing messages of an application error.
// Internal errors and plain errors yield the generic retry message.
func ErrorMessages(err error) []string {
	var e *Error
	if err == nil {
		return nil
	}
	if errors.As(err, &e) && e.Code != EINTERNAL && len(e.Messages) > 0 {
		return e.Messages
	}
	return []string{GenericMessage}
}
