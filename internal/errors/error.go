package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// UpstreamUnavailable represents a network failure, timeout or 5xx from a market API.
	UpstreamUnavailable ErrorCode = "upstream_unavailable"
	// UpstreamRateLimited represents a 429 answer from a market API.
	UpstreamRateLimited ErrorCode = "upstream_rate_limited"
	// UpstreamRejected represents a 4xx answer other than 429.
	UpstreamRejected ErrorCode = "upstream_rejected"
	// MalformedPayload represents a response body that could not be decoded.
	MalformedPayload ErrorCode = "malformed_payload"
	// EmptySeries represents a historical query that returned no prices.
	EmptySeries ErrorCode = "empty_series"
	// InvalidRequest represents caller input rejected before any upstream call.
	InvalidRequest ErrorCode = "invalid_request"
	// UnknownCoin represents a catalog lookup miss.
	UnknownCoin ErrorCode = "unknown_coin"
	// ConfigError represents invalid or unreadable configuration.
	ConfigError ErrorCode = "config_error"
	// CredentialsError represents a missing or invalid credential file.
	CredentialsError ErrorCode = "credentials_error"
	// RenderError represents a chart surface that failed to redraw.
	RenderError ErrorCode = "render_error"
	// Canceled represents an operation stopped by its context.
	Canceled ErrorCode = "canceled"
)

// Kind tells callers whether retrying can help.
type Kind string

const (
	// KindTransient is expected to resolve on retry (rate limit, timeout).
	KindTransient Kind = "transient"
	// KindFatal cannot be resolved by retrying (bad credentials, malformed config).
	KindFatal Kind = "fatal"
)

// Error is the error type returned by every external call in cryptoboard.
type Error struct {
	Code    ErrorCode
	Kind    Kind
	Message string
	Err     error
}

// StackTracer is an interface that requires a StackTrace method.
type StackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// New creates an Error without an underlying cause.
func New(code ErrorCode, kind Kind, message string) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     pkgerrors.New(message),
	}
}

// Wrap wraps err, preserving its stack trace or recording one if it has none.
func Wrap(err error, code ErrorCode, kind Kind, message string) *Error {
	if err == nil {
		return New(code, kind, message)
	}
	if _, ok := err.(StackTracer); !ok {
		err = pkgerrors.WithStack(err)
	}
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Transient wraps err as a retryable failure.
func Transient(code ErrorCode, message string, err error) *Error {
	return Wrap(err, code, KindTransient, message)
}

// Fatal wraps err as a failure that retrying will not fix.
func Fatal(code ErrorCode, message string, err error) *Error {
	return Wrap(err, code, KindFatal, message)
}

func (e *Error) Error() string {
	if e.Err == nil || e.Err.Error() == e.Message {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StackTrace returns the stack trace of the underlying error if it implements StackTracer.
func (e *Error) StackTrace() pkgerrors.StackTrace {
	if st, ok := e.Err.(StackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

// KindOf reports the kind of err. Errors that did not come from this
// package are fatal, except context deadlines which are transient.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}
	return KindFatal
}

// IsTransient reports whether err may succeed on retry.
func IsTransient(err error) bool {
	return err != nil && KindOf(err) == KindTransient
}

// IsFatal reports whether err must not be retried.
func IsFatal(err error) bool {
	return err != nil && KindOf(err) == KindFatal
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// MessageOf returns a message fit to show a user.
func MessageOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// FromStatus classifies a non-2xx HTTP answer from an upstream API.
func FromStatus(status int, message string) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return New(UpstreamRateLimited, KindTransient, message)
	case status == http.StatusRequestTimeout || status >= http.StatusInternalServerError:
		return New(UpstreamUnavailable, KindTransient, message)
	default:
		return New(UpstreamRejected, KindFatal, message)
	}
}

// FromTransport classifies an error raised before any HTTP status was received.
func FromTransport(err error, message string) *Error {
	if stderrors.Is(err, context.Canceled) {
		return Fatal(Canceled, message, err)
	}
	return Transient(UpstreamUnavailable, message, err)
}
