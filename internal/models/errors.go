package models

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when an operation is attempted while another one is outstanding.
var ErrBusy = errors.New("another operation is in progress")

// Validation codes.
const (
	CodeInvalidFileType = "INVALID_FILE_TYPE"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeEmptyText       = "EMPTY_TEXT"
)

// ValidationError is a local precondition failure. It never reaches the network.
type ValidationError struct {
	Code    string            `json:"code"`
	Field   string            `json:"field,omitempty"`
	Message string            `json:"message"`
	Level   NotificationLevel `json:"-"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Code, e.Message)
}

// RemoteError means the server answered but reported failure.
type RemoteError struct {
	Operation string
	Message   string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: server reported failure", e.Operation)
	}
	return fmt.Sprintf("%s: server reported failure: %s", e.Operation, e.Message)
}

// TransportError means the request could not complete or the body was unusable.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage picks what a person should see for err. Remote errors show the
// server message, or remoteFallback when the server sent none. Transport and
// unknown errors show transportMessage and never their details.
func UserMessage(err error, remoteFallback, transportMessage string) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var rerr *RemoteError
	if errors.As(err, &rerr) {
		if rerr.Message != "" {
			return rerr.Message
		}
		return remoteFallback
	}
	return transportMessage
}
