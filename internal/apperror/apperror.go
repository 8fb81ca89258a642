// Package apperror defines the stable error kinds surfaced by the
// learning services. Handlers translate kinds to HTTP statuses; callers
// never see a bare 500 for a condition enumerated here.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindBadRequest            Kind = "bad_request"
	KindNotFound              Kind = "not_found"
	KindForbidden             Kind = "forbidden"
	KindPrerequisiteNotMet    Kind = "prerequisite_not_met"
	KindAlreadyCompleted      Kind = "already_completed"
	KindAlreadyStarted        Kind = "already_started"
	KindAlreadyFinalized      Kind = "already_finalized"
	KindNoActivePool          Kind = "no_active_pool"
	KindInsufficientQuestions Kind = "insufficient_questions"
	KindConflict              Kind = "conflict"
	KindInternal              Kind = "internal"
)

// Blocking identifies the entity that failed a prerequisite check.
type Blocking struct {
	LessonID   string `json:"lessonId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	StageID    string `json:"stageId,omitempty"`
}

type Error struct {
	Kind     Kind
	Message  string
	Blocking *Blocking
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func BadRequest(message string) *Error { return New(KindBadRequest, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }
func Forbidden(message string) *Error  { return New(KindForbidden, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }

func AlreadyCompleted(message string) *Error { return New(KindAlreadyCompleted, message) }
func AlreadyStarted(message string) *Error   { return New(KindAlreadyStarted, message) }
func AlreadyFinalized(message string) *Error { return New(KindAlreadyFinalized, message) }

func NoActivePool(message string) *Error          { return New(KindNoActivePool, message) }
func InsufficientQuestions(message string) *Error { return New(KindInsufficientQuestions, message) }

func PrerequisiteNotMet(message string, blocking Blocking) *Error {
	return &Error{Kind: KindPrerequisiteNotMet, Message: message, Blocking: &blocking}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain, defaulting to internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// AsError returns the *Error in the chain, wrapping unknown errors as
// internal so handlers always have a message and kind to report.
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}
