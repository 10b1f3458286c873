package mediation

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a failed request.
type Kind int

const (
	KindTimeout Kind = iota + 1
	KindUnreachable
	KindServerError
	KindMalformed
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindUnreachable:
		return "unreachable"
	case KindServerError:
		return "server_error"
	case KindMalformed:
		return "malformed_response"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is the typed failure reported after retries are exhausted.
type Error struct {
	Kind     Kind
	Status   int // HTTP status for KindServerError, 0 otherwise
	Attempts int // physical attempts made for this logical request
	cause    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindServerError:
		return fmt.Sprintf("mediation %s: status %d after %d attempt(s)", e.Kind, e.Status, e.Attempts)
	case e.cause != nil:
		return fmt.Sprintf("mediation %s after %d attempt(s): %v", e.Kind, e.Attempts, e.cause)
	default:
		return fmt.Sprintf("mediation %s after %d attempt(s)", e.Kind, e.Attempts)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf extracts the failure kind, or 0 for foreign errors.
func KindOf(err error) Kind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return 0
}

// IsCancelled reports whether the failure came from explicit cancellation.
// Cancelled failures are fully silent by the supersession rule.
func IsCancelled(err error) bool {
	return KindOf(err) == KindCancelled
}

// classify maps a transport error onto a Kind. Context cancellation wins over
// everything; a deadline anywhere in the chain is a timeout; the rest is
// treated as unreachable.
func classify(err error) Kind {
	switch {
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return KindTimeout
	}
	return KindUnreachable
}
