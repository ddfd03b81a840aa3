package worker

import "fmt"

// UserModelError is the error type model code raises to report a handled
// failure with structured context, grounded on original_source's
// SenapsModelError(msg, user_data).
type UserModelError struct {
	Msg  string
	Data any
}

// NewUserModelError constructs a UserModelError carrying msg and optional
// json-encodable data describing the failure.
func NewUserModelError(msg string, data any) *UserModelError {
	return &UserModelError{Msg: msg, Data: data}
}

func (e *UserModelError) Error() string {
	if e.Data == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s (data: %v)", e.Msg, e.Data)
}
