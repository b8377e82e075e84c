// Package services defines the business logic for survey composition and
// user activity tracking. This file centralizes common service-level error
// values and types so that they can be consistently returned by service
// methods and checked by callers.
//
// These errors are intended for internal use by the service layer; the
// composition coordinator translates them into the small set of
// caller-visible outcomes.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrOwnerNotFound is returned by the composite-creation flow when the
	// referenced Telegram identity has no account yet. The flow never
	// silently creates an account: the caller must record a contact first.
	ErrOwnerNotFound = errors.New("owner account not found")

	// ErrSurveyNotFound indicates that the requested survey does not exist.
	ErrSurveyNotFound = errors.New("survey not found")

	// ErrUserNotFound indicates that the requested account does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// InvalidQuestionError reports a type/field mismatch for one question of a
// composite-creation payload. Index is the 1-based position of the offending
// question; Field names the payload field that failed.
type InvalidQuestionError struct {
	Index  int
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidQuestionError) Error() string {
	return fmt.Sprintf("question %d: field '%s' %s", e.Index, e.Field, e.Reason)
}
