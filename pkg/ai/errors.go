package ai

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/openai/openai-go"
)

// Kind is the closed set of completion failure classes. Callers switch on it
// to decide retry guidance and user messaging.
type Kind string

const (
	// KindEmptyResponse means the provider answered but returned no usable text.
	KindEmptyResponse Kind = "EmptyResponse"
	// KindRateLimited means the provider signaled quota or throughput exhaustion.
	KindRateLimited Kind = "RateLimited"
	// KindUnreachable means the connection failed or the request timed out.
	KindUnreachable Kind = "Unreachable"
	// KindMisconfigured means authentication failed; operator-actionable.
	KindMisconfigured Kind = "Misconfigured"
	// KindUnavailable covers any other provider-reported API error.
	KindUnavailable Kind = "Unavailable"
	// KindUnexpected is the catch-all for anything unrecognized.
	KindUnexpected Kind = "Unexpected"
)

// Error is a classified completion failure. Message is safe to show to end
// users; the underlying provider error is retained for logs only.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// classifyErr maps a raw openai-go error onto the failure taxonomy.
func classifyErr(err error) *Error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == http.StatusTooManyRequests:
			return newError(KindRateLimited, "Our AI service is busy. Please try again in a moment.", err)
		case apierr.StatusCode == http.StatusUnauthorized || apierr.StatusCode == http.StatusForbidden:
			return newError(KindMisconfigured, "AI service configuration error. Please contact support.", err)
		default:
			return newError(KindUnavailable, "AI service temporarily unavailable. Please try again.", err)
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return newError(KindUnreachable, "Unable to connect to AI service. Please try again.", err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return newError(KindUnreachable, "Unable to connect to AI service. Please try again.", err)
	}

	return newError(KindUnexpected, "An unexpected error occurred. Please try again.", err)
}
