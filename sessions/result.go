package sessions

import "github.com/Paul200287/GradeTracker/token"

// Result is the outcome of a session check: Authorized with a payload, or Unauthorized.
type Result struct {
	payload    token.Payload
	authorized bool
}

func Authorized(p token.Payload) Result {
	return Result{payload: p, authorized: true}
}

func Unauthorized() Result {
	return Result{}
}

func (r Result) Authorized() bool {
	return r.authorized
}

// Payload returns the session payload; ok is false for an Unauthorized result.
func (r Result) Payload() (token.Payload, bool) {
	return r.payload, r.authorized
}
