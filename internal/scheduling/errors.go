package scheduling

import "net/http"

// Error is an application error carrying the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrBadRequest builds a 400 error.
func ErrBadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// ErrNotFound builds a 404 error.
func ErrNotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// ErrConflict builds a 409 error.
func ErrConflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Message: msg}
}
