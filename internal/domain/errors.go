package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the stable classification of every failure the dispatch core reports
type ErrorKind string

const (
	KindUnknownTool         ErrorKind = "UnknownTool"
	KindInvalidInput        ErrorKind = "InvalidInput"
	KindSessionNotFound     ErrorKind = "SessionNotFound"
	KindSessionBusy         ErrorKind = "SessionBusy"
	KindForbidden           ErrorKind = "Forbidden"
	KindProviderTimeout     ErrorKind = "ProviderTimeout"
	KindProviderRateLimited ErrorKind = "ProviderRateLimited"
	KindProviderRejected    ErrorKind = "ProviderRejected"
	KindProviderUnavailable ErrorKind = "ProviderUnavailable"
	KindStoreUnavailable    ErrorKind = "StoreUnavailable"
)

var kindStatus = map[ErrorKind]int{
	KindUnknownTool:         http.StatusNotFound,
	KindInvalidInput:        http.StatusBadRequest,
	KindSessionNotFound:     http.StatusNotFound,
	KindSessionBusy:         http.StatusConflict,
	KindForbidden:           http.StatusForbidden,
	KindProviderTimeout:     http.StatusGatewayTimeout,
	KindProviderRateLimited: http.StatusTooManyRequests,
	KindProviderRejected:    http.StatusUnprocessableEntity,
	KindProviderUnavailable: http.StatusBadGateway,
	KindStoreUnavailable:    http.StatusServiceUnavailable,
}

// Retriable reports whether resubmitting the same request is reasonable
func (k ErrorKind) Retriable() bool {
	switch k {
	case KindSessionBusy, KindProviderTimeout, KindProviderRateLimited,
		KindProviderUnavailable, KindStoreUnavailable:
		return true
	}
	return false
}

// HTTPStatus maps the kind to a response status code
func (k ErrorKind) HTTPStatus() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a classified failure
type Error struct {
	Kind    ErrorKind
	Message string
	// Fields maps offending input field names to a reason, for InvalidInput
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError classifies err under kind
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// InvalidInput builds an InvalidInput error listing the offending fields
func InvalidInput(fields map[string]string) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Message: "invalid input",
		Fields:  fields,
	}
}

// KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	var k interface{ ErrorKind() ErrorKind }
	if errors.As(err, &k) {
		return k.ErrorKind(), true
	}
	return "", false
}

// IsKind reports whether err is classified as kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
