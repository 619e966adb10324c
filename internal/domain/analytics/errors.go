package analytics

import (
	"errors"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrForbidden  = errors.New("forbidden")
)

func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsErrForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
