package gateway

import (
	"fmt"
)

// Kind classifies why a service call failed.
type Kind int

const (
	// NetworkUnreachable means no HTTP response was received.
	NetworkUnreachable Kind = iota + 1
	// ServerRejected means the service answered with a non-2xx status.
	ServerRejected
	// DecodeFailure means a 2xx body did not match the expected shape.
	DecodeFailure
)

func (k Kind) String() string {
	switch k {
	case NetworkUnreachable:
		return "network unreachable"
	case ServerRejected:
		return "server rejected"
	case DecodeFailure:
		return "decode failure"
	default:
		return "unknown"
	}
}

// NetworkErrorMessage is shown to the operator for every NetworkUnreachable failure.
const NetworkErrorMessage = "Network error - please check your connection"

// Error is the classified failure of one gateway call.
type Error struct {
	Op     string // Operation name, e.g. "resume/upload"
	Kind   Kind
	Status int    // HTTP status, zero unless Kind is ServerRejected
	Detail string // Server-supplied detail, ServerRejected only
	Cause  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// OperatorMessage collapses the failure into the single string a domain
// store records. The server detail wins when present; otherwise fallback,
// the domain-scoped generic message, is used.
func (e *Error) OperatorMessage(fallback string) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case NetworkUnreachable:
		return NetworkErrorMessage
	case ServerRejected:
		if e.Detail != "" {
			return e.Detail
		}
		return fallback
	default:
		return fallback
	}
}
