package chat

import "fmt"

// Kind classifies a chat error. Each kind maps to a stable machine-readable code.
type Kind string

const (
	KindInvalidMembership             Kind = "invalid_membership"
	KindNotAuthorized                 Kind = "not_authorized"
	KindNotAParticipant               Kind = "not_a_participant"
	KindDuplicateParticipant          Kind = "duplicate_participant"
	KindSelfRemovalByCreatorForbidden Kind = "self_removal_by_creator_forbidden"
	KindPartialMatchFailure           Kind = "partial_match_failure"
	KindPersistenceFailure            Kind = "persistence_failure"
	KindMalformedIdentifier           Kind = "malformed_identifier"
	KindNotFound                      Kind = "not_found"
	KindInvalidInput                  Kind = "invalid_input"
)

// Error is the error type returned by chat use cases.
// Matched and Modified are only meaningful for KindPartialMatchFailure.
type Error struct {
	Kind     Kind
	Message  string
	Matched  int
	Modified int
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("chat: %s: %v", msg, e.Err)
	}
	return "chat: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotAuthorized) works
// regardless of the message attached.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Code returns the stable code of the error kind.
func (e *Error) Code() string { return string(e.Kind) }

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidMembership             = &Error{Kind: KindInvalidMembership, Message: "invalid participant set"}
	ErrNotAuthorized                 = &Error{Kind: KindNotAuthorized, Message: "not authorized"}
	ErrNotAParticipant               = &Error{Kind: KindNotAParticipant, Message: "user is not a participant in the conversation"}
	ErrDuplicateParticipant          = &Error{Kind: KindDuplicateParticipant, Message: "user is already a participant"}
	ErrSelfRemovalByCreatorForbidden = &Error{Kind: KindSelfRemovalByCreatorForbidden, Message: "conversation creator cannot remove themselves"}
	ErrPartialMatchFailure           = &Error{Kind: KindPartialMatchFailure, Message: "not every item matched"}
	ErrPersistenceFailure            = &Error{Kind: KindPersistenceFailure, Message: "persistence failure"}
	ErrMalformedIdentifier           = &Error{Kind: KindMalformedIdentifier, Message: "malformed identifier"}
	ErrNotFound                      = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidInput                  = &Error{Kind: KindInvalidInput, Message: "invalid input"}
)

// Errorf builds an error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Persistence wraps an infrastructure error. Errors that are already classified pass through.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*Error); ok {
		return err
	}
	return &Error{Kind: KindPersistenceFailure, Message: "persistence failure", Err: err}
}

// PartialMatch reports a batch in which fewer items matched than were requested.
func PartialMatch(requested, matched, modified int) *Error {
	return &Error{
		Kind:     KindPartialMatchFailure,
		Message:  fmt.Sprintf("matched %d of %d items", matched, requested),
		Matched:  matched,
		Modified: modified,
	}
}
