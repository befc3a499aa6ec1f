package queue

import "errors"

// ErrPermanent marks handler errors that retrying cannot fix
var ErrPermanent = errors.New("permanent job failure")

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() []error {
	return []error{ErrPermanent, e.err}
}

// Permanent wraps err so the worker fails the job without retrying.
// A nil err stays nil.
func Permanent(err error) error {
	if err == nil || errors.Is(err, ErrPermanent) {
		return err
	}
	return &permanentError{err: err}
}
