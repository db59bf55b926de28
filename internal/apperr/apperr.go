// Package apperr defines the error taxonomy shared by the proxy and the reader.
package apperr

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Kind is a stable, machine-readable error category. The string values are
// also used as the "code" field of proxy error bodies.
type Kind string

const (
	KindNetwork         Kind = "NETWORK_ERROR"
	KindUpstream        Kind = "UPSTREAM_ERROR"
	KindValidation      Kind = "VALIDATION_ERROR"
	KindClientRateLimit Kind = "CLIENT_RATE_LIMIT"
	KindConfiguration   Kind = "CONFIGURATION_ERROR"
	KindUnknown         Kind = "UNKNOWN_ERROR"
)

// Codes the news provider reports in "code" alongside status:"error".
const (
	CodeRateLimited     = "rateLimited"
	CodeAPIKeyInvalid   = "apiKeyInvalid"
	CodeAPIKeyMissing   = "apiKeyMissing"
	CodeAPIKeyExhausted = "apiKeyExhausted"
)

// User-facing messages per category.
const (
	MsgNetwork         = "Please check your internet connection and try again."
	MsgUpstream        = "An error occurred while fetching data. Please try again later."
	MsgAuth            = "Authentication failed. Please check your API key."
	MsgValidation      = "Invalid data received. Please try again."
	MsgClientRateLimit = "Too many requests. Please wait a moment."
	MsgConfiguration   = "The news API credential is not configured."
	MsgUnknown         = "An unexpected error occurred. Please try again later."
)

// Error is a categorized error. Message is returned verbatim from Error().
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap categorizes err, keeping it reachable through errors.Is/As.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Upstream builds an error reported by the news provider.
func Upstream(code, message string) *Error {
	return &Error{Kind: KindUpstream, Code: code, Message: message}
}

// KindOf returns the category of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Failure is what the reader shows for a failed action.
type Failure struct {
	Kind    Kind
	Message string
}

// Describe classifies err into a Failure. Typed errors are trusted first;
// anything else is classified from its message text.
func Describe(err error) Failure {
	if err == nil {
		return Failure{}
	}

	var e *Error
	if errors.As(err, &e) {
		return describeTyped(e)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Failure{Kind: KindNetwork, Message: MsgNetwork}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Failure{Kind: KindNetwork, Message: MsgNetwork}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"):
		return Failure{Kind: KindUpstream, Message: MsgAuth}
	case strings.Contains(msg, "network"), strings.Contains(msg, "fetch"):
		return Failure{Kind: KindNetwork, Message: MsgNetwork}
	case strings.Contains(msg, "invalid"), strings.Contains(msg, "required"):
		return Failure{Kind: KindValidation, Message: MsgValidation}
	}
	return Failure{Kind: KindUnknown, Message: MsgUnknown}
}

func describeTyped(e *Error) Failure {
	switch e.Kind {
	case KindUpstream:
		switch e.Code {
		case CodeRateLimited:
			return Failure{Kind: e.Kind, Message: "API rate limit exceeded. Please try again later."}
		case CodeAPIKeyInvalid:
			return Failure{Kind: e.Kind, Message: "Invalid API key. Please check your configuration."}
		case CodeAPIKeyMissing:
			return Failure{Kind: e.Kind, Message: "API key is missing. Please check your configuration."}
		}
		if e.Message != "" {
			return Failure{Kind: e.Kind, Message: e.Message}
		}
		return Failure{Kind: e.Kind, Message: MsgUpstream}
	case KindNetwork:
		return Failure{Kind: e.Kind, Message: MsgNetwork}
	case KindValidation:
		return Failure{Kind: e.Kind, Message: MsgValidation}
	case KindClientRateLimit:
		return Failure{Kind: e.Kind, Message: MsgClientRateLimit}
	case KindConfiguration:
		return Failure{Kind: e.Kind, Message: MsgConfiguration}
	}
	return Failure{Kind: KindUnknown, Message: MsgUnknown}
}
