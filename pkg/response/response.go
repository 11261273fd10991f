package response

import (
	"errors"
	"net/http"
)

type kind int

const (
	kindOther kind = iota
	kindMissing
	kindDuplicate
)

type Error struct {
	Code int
	Err  error
	kind kind
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}

// NewMissing builds a not-found domain error.
func NewMissing(msg string) error {
	return &Error{Code: http.StatusNotFound, Err: errors.New(msg), kind: kindMissing}
}

// NewDuplicate builds a uniqueness-violation domain error.
func NewDuplicate(msg string) error {
	return &Error{Code: http.StatusBadRequest, Err: errors.New(msg), kind: kindDuplicate}
}

// IsMissing and IsDuplicate match only errors built by NewMissing and
// NewDuplicate, not every error sharing their status code.
func IsMissing(err error) bool {
	return hasKind(err, kindMissing)
}

func IsDuplicate(err error) bool {
	return hasKind(err, kindDuplicate)
}

func hasKind(err error, k kind) bool {
	var respErr *Error
	if !errors.As(err, &respErr) {
		return false
	}
	return respErr.kind == k
}
