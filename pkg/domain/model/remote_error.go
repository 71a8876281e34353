package model

import (
	"fmt"
	"strings"
)

// APIError is a structured rejection returned by the remote service, such as a
// validation or business rule failure. Message is meant to be shown verbatim.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote service returned status %d", e.Status)
	}
	return e.Message
}

// TransportError reports that a remote call could not complete (network failure, timeout)
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Op + ": transport error"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message returns the transport-level message without the operation prefix
func (e *TransportError) Message() string {
	if e.Err == nil {
		return ""
	}
	return strings.TrimSpace(e.Err.Error())
}
