package extrinsic

import (
	"errors"

	"github.com/jask/stakedash/internal/chain"
)

type ErrorCode string

func (e ErrorCode) String() string {
	return string(e)
}

const (
	NotSubmittable ErrorCode = "NOT_SUBMITTABLE"
	Connection     ErrorCode = "CONNECTION"
	Rejected       ErrorCode = "REJECTED"
	Internal       ErrorCode = "INTERNAL"
)

// Error is a submission failure with a stable code for callers to branch on.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	errNoTx       = errors.New("no transaction to submit")
	errNotAllowed = errors.New("transaction is not valid for submission")
	errInFlight   = errors.New("a submission is already in progress")
)

// CodeOf returns the code of err, Internal for foreign errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

func classify(err error) *Error {
	var dispatch *chain.DispatchError
	switch {
	case errors.Is(err, chain.ErrDisconnected):
		return &Error{Code: Connection, Err: err}
	case errors.As(err, &dispatch), errors.Is(err, chain.ErrBadArgs), errors.Is(err, chain.ErrUnknownCall):
		return &Error{Code: Rejected, Err: err}
	default:
		return &Error{Code: Internal, Err: err}
	}
}
