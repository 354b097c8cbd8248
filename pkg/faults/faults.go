// pkg/faults/faults.go
package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers that must turn it into a structured
// outcome rather than propagate it.
type Kind int

const (
	// ConfigurationMissing: a required credential key resolved to absent.
	ConfigurationMissing Kind = iota + 1
	// TransportFailure: network-level fault reaching an external endpoint.
	TransportFailure
	// UpstreamRejected: non-2xx from an external endpoint (carries status + body).
	UpstreamRejected
	// MalformedResponse: response body failed to parse into the expected shape.
	MalformedResponse
	// DomainInvariant: upstream answered but the answer is unusable
	// (e.g. created user has no identifier).
	DomainInvariant
)

func (k Kind) String() string {
	switch k {
	case ConfigurationMissing:
		return "configuration_missing"
	case TransportFailure:
		return "transport_failure"
	case UpstreamRejected:
		return "upstream_rejected"
	case MalformedResponse:
		return "malformed_response"
	case DomainInvariant:
		return "domain_invariant"
	}
	return "unknown"
}

// Fault is the single error type crossing component boundaries in this core.
type Fault struct {
	Kind   Kind
	Op     string // e.g. "token.issue", "onboarding.create"
	Detail string
	Status int    // set for UpstreamRejected
	Body   string // truncated upstream body, diagnostics only
	Err    error
}

func (f *Fault) Error() string {
	msg := fmt.Sprintf("%s: %s", f.Op, f.Kind)
	if f.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, f.Status)
	}
	if f.Detail != "" {
		msg += ": " + f.Detail
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Fault) Unwrap() error { return f.Err }

const maxBody = 2048

func truncate(s string) string {
	if len(s) > maxBody {
		return s[:maxBody]
	}
	return s
}

func Missing(op, detail string) *Fault {
	return &Fault{Kind: ConfigurationMissing, Op: op, Detail: detail}
}

func Transport(op string, err error) *Fault {
	return &Fault{Kind: TransportFailure, Op: op, Err: err}
}

func Rejected(op string, status int, body string) *Fault {
	return &Fault{Kind: UpstreamRejected, Op: op, Status: status, Body: truncate(body)}
}

func Malformed(op string, err error) *Fault {
	return &Fault{Kind: MalformedResponse, Op: op, Err: err}
}

func Invariant(op, detail string) *Fault {
	return &Fault{Kind: DomainInvariant, Op: op, Detail: detail}
}

// IsKind reports whether err is (or wraps) a Fault of the given kind.
func IsKind(err error, k Kind) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == k
}
