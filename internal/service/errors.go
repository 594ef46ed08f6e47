package service

import "errors"

// Kind is the user-visible failure class of a service error. All kinds
// are terminal and non-retryable by the service itself; the caller may
// retry after correcting input.
type Kind int

const (
	// KindInternal covers persistence and other unexpected failures.
	KindInternal Kind = iota
	// KindNotFound: a referenced wallet, user, settlement, or goal
	// does not exist.
	KindNotFound
	// KindForbidden: the actor lacks membership or ownership for the
	// requested operation.
	KindForbidden
	// KindBadRequest: invalid amount, self-settlement, non-member
	// participants, or otherwise malformed input.
	KindBadRequest
	// KindUnauthenticated: missing or invalid credentials.
	KindUnauthenticated
)

// Error is a service failure carrying its kind alongside the message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the kind from an error chain, defaulting to
// KindInternal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func notFound(msg string) error        { return &Error{Kind: KindNotFound, Msg: msg} }
func forbidden(msg string) error       { return &Error{Kind: KindForbidden, Msg: msg} }
func badRequest(msg string) error      { return &Error{Kind: KindBadRequest, Msg: msg} }
func unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Msg: msg} }

func internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}
