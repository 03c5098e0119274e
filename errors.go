package requestspro

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorKind labels the failure class of a single attempt.
type ErrorKind string

const (
	// KindTransport covers connection refused/reset, DNS failures and other
	// dial or read level errors.
	KindTransport ErrorKind = "TransportError"
	// KindTimeout means the attempt exceeded its deadline.
	KindTimeout ErrorKind = "TimeoutError"
	// KindAntiBotBlocked is raised for 403 responses.
	KindAntiBotBlocked ErrorKind = "AntiBotBlockError"
	// KindUnauthorized is raised for 401 responses.
	KindUnauthorized ErrorKind = "UnauthorizedError"
	// KindNotFound is raised for 404 responses.
	KindNotFound ErrorKind = "NotFoundError"
	// KindHTTPStatus is the generic non-passing status classification.
	KindHTTPStatus ErrorKind = "HTTPStatusError"
	// KindRequest is the catch-all for failures that fit no other kind,
	// including anything raised by a custom status handler.
	KindRequest ErrorKind = "RequestError"
)

// RequestError is a classified per-attempt failure.
type RequestError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Body       string
	Cause      error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [%d]", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches two RequestErrors by kind for errors.Is.
func (e *RequestError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*RequestError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// AggregateError is the terminal failure once the retry budget is exhausted.
// It wraps every attempt's classified error in order.
type AggregateError struct {
	Message string
	Errors  []error
}

// Error renders the grouped message with a numbered per-attempt list.
func (e *AggregateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(e.Message)
	b.WriteString("\n")
	for i, err := range e.Errors {
		kind := ErrorKind("error")
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			kind = reqErr.Kind
		}
		fmt.Fprintf(&b, "%d. [%s]: %v\n", i, kind, err)
	}
	return b.String()
}

// LastError returns the most recent attempt's error, or nil when empty.
func (e *AggregateError) LastError() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// Unwrap exposes the attempt errors to errors.Is / errors.As.
func (e *AggregateError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return e.Errors
}

// classifyTransportError converts an engine-level error into a RequestError,
// separating timeouts from connection failures.
func classifyTransportError(err error) *RequestError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &RequestError{Kind: KindTimeout, Message: "timeout error", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &RequestError{Kind: KindTimeout, Message: "timeout error", Cause: err}
		}
		return &RequestError{Kind: KindTransport, Message: "error connecting to the server", Cause: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &RequestError{Kind: KindTransport, Message: "error connecting to the server", Cause: err}
	}
	// tls-client wraps dial errors before they reach us; fall back on the
	// message for the common cases.
	msg := err.Error()
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return &RequestError{Kind: KindTimeout, Message: "timeout error", Cause: err}
	}
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host") || strings.Contains(msg, "EOF") {
		return &RequestError{Kind: KindTransport, Message: "error connecting to the server", Cause: err}
	}
	return &RequestError{Kind: KindRequest, Message: "an error occurred", Cause: err}
}

// classifyAttemptError normalizes any attempt failure into a *RequestError so
// the aggregate log stays uniformly typed.
func classifyAttemptError(err error) *RequestError {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	return classifyTransportError(err)
}
