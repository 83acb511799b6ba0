package response

import (
	"errors"
)

// Error carries an HTTP status and, optionally, a user-facing reply that the
// chat client shows in place of a bot answer.
type Error struct {
	Code  int
	Err   error
	Reply string
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

func NewReplyError(code int, err, reply string) error {
	return &Error{Code: code, Err: errors.New(err), Reply: reply}
}

type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Reply   string `json:"response,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}
