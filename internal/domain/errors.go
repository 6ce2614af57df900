package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed lookup
type ErrorKind int

const (
	KindEmptyInput ErrorKind = iota + 1
	KindTransport
	KindHTTPStatus
	KindProviderFailure
	KindMalformedPayload
)

func (k ErrorKind) String() string {
	switch k {
	case KindEmptyInput:
		return "empty_input"
	case KindTransport:
		return "transport_failure"
	case KindHTTPStatus:
		return "http_error"
	case KindProviderFailure:
		return "provider_failure"
	case KindMalformedPayload:
		return "malformed_payload"
	}
	return "unknown"
}

// User-facing messages. Every kind except empty input collapses to one line.
const (
	MessageEmptyInput   = "Please enter a city name"
	MessageLookupFailed = "City not found or network error"
)

// FetchError keeps the failure kind for callers and tests while the shell
// only ever shows UserMessage.
type FetchError struct {
	Kind   ErrorKind
	Status int // HTTP status for KindHTTPStatus, provider cod for KindProviderFailure
	Err    error
}

func (e *FetchError) Error() string {
	msg := "weather: " + e.Kind.String()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (%d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches any FetchError of the same kind, so errors.Is(err, ErrTransport)
// works regardless of status or cause.
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// UserMessage is the single short line shown for this failure
func (e *FetchError) UserMessage() string {
	if e.Kind == KindEmptyInput {
		return MessageEmptyInput
	}
	return MessageLookupFailed
}

var (
	ErrEmptyInput       = &FetchError{Kind: KindEmptyInput}
	ErrTransport        = &FetchError{Kind: KindTransport}
	ErrHTTPStatus       = &FetchError{Kind: KindHTTPStatus}
	ErrProviderFailure  = &FetchError{Kind: KindProviderFailure}
	ErrMalformedPayload = &FetchError{Kind: KindMalformedPayload}
)

// NewFetchError builds a FetchError of the given kind
func NewFetchError(kind ErrorKind, status int, err error) *FetchError {
	return &FetchError{Kind: kind, Status: status, Err: err}
}

// KindOf extracts the kind of err, or 0 when err is not a FetchError
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// UserMessage maps any error to the line shown to the user
func UserMessage(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.UserMessage()
	}
	return MessageLookupFailed
}
