// Package apierr defines the error taxonomy shared by every component that can
// surface a failure across a process boundary (HTTP, WebSocket, device fan-out).
package apierr

import "fmt"

// Kind is one of the closed set of error categories the Gateway translates into
// a transport-specific response.
type Kind string

const (
	InvalidArgument     Kind = "invalid_argument"
	NotFound            Kind = "not_found"
	Unauthorized        Kind = "unauthorized"
	QuotaExceeded       Kind = "quota_exceeded"
	Incompatible        Kind = "incompatible"
	Timeout             Kind = "timeout"
	UpstreamUnavailable Kind = "upstream_unavailable"
	Internal            Kind = "internal"
)

// Error is the shape every public-facing failure takes: {kind, message, hint?, trace_id}.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
	TraceID string `json:"trace_id,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithTraceID returns a copy of the error stamped with a trace id, used by the
// error-handler middleware so callers don't need to construct one up front.
func (e *Error) WithTraceID(id string) *Error {
	c := *e
	c.TraceID = id
	return &c
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func Hinted(kind Kind, message, hint string) *Error {
	return &Error{Kind: kind, Message: message, Hint: hint}
}

func Invalid(message string) *Error       { return New(InvalidArgument, message) }
func NotFoundf(format string, a ...any) *Error {
	return New(NotFound, fmt.Sprintf(format, a...))
}
func Unauth(message string) *Error        { return New(Unauthorized, message) }
func QuotaHit(message string) *Error      { return New(QuotaExceeded, message) }
func Incompat(message string) *Error      { return New(Incompatible, message) }
func TimedOut(message string) *Error      { return New(Timeout, message) }
func Upstream(message string, cause error) *Error {
	return Wrap(UpstreamUnavailable, message, cause)
}
func Bug(message string) *Error { return New(Internal, message) }

// As extracts an *Error from err, reporting whether it was one.
func As(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	if e, ok := err.(*Error); ok {
		return e, true
	}
	return nil, false
}

// HTTPStatus maps a Kind to the conventional status code the Gateway responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidArgument:
		return 400
	case Unauthorized:
		return 401
	case QuotaExceeded:
		return 429
	case NotFound:
		return 404
	case Incompatible:
		return 409
	case Timeout:
		return 504
	case UpstreamUnavailable:
		return 502
	default:
		return 500
	}
}
