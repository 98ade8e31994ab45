package authz

import "net/http"

// Decision is the outcome of one guard evaluation. A rejection carries the
// HTTP status and message to return; extra fields add debugging context to
// the rejection body.
type Decision struct {
	Allowed bool
	Status  int
	Message string
	Fields  map[string]any

	// Err holds the underlying failure for server-side logs. It is never
	// written to the response.
	Err error
}

// Allow produces a passing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Reject produces a failing decision with the given status and message.
func Reject(status int, message string) Decision {
	return Decision{Status: status, Message: message}
}

// RejectWith attaches context fields to a rejection.
func RejectWith(status int, message string, fields map[string]any) Decision {
	return Decision{Status: status, Message: message, Fields: fields}
}

// Guard is a single authorization check. Guards must be pure with respect to
// the request: they read route parameters and the identity, never the body,
// and never write the response themselves.
type Guard interface {
	Evaluate(r *http.Request, id Identity) Decision
}

// GuardFunc adapts a function to the Guard interface.
type GuardFunc func(r *http.Request, id Identity) Decision

// Evaluate implements Guard.
func (f GuardFunc) Evaluate(r *http.Request, id Identity) Decision {
	return f(r, id)
}

// Chain runs guards in declared order and stops at the first rejection.
// An empty chain allows.
func Chain(guards ...Guard) Guard {
	return GuardFunc(func(r *http.Request, id Identity) Decision {
		for _, g := range guards {
			if d := g.Evaluate(r, id); !d.Allowed {
				return d
			}
		}
		return Allow()
	})
}
