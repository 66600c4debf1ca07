package service

import "fmt"

// domainError pairs a client-facing message with the repository sentinel that
// caused it, so handlers can pick the HTTP status with errors.Is instead of
// matching message strings. Unexpected store errors are returned unwrapped
// and map to 500 at the handler.
type domainError struct {
	msg  string
	kind error
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func domainErrorf(kind error, format string, args ...interface{}) error {
	return &domainError{msg: fmt.Sprintf(format, args...), kind: kind}
}
