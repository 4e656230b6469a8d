package api

import "fmt"

// RequestFailedError is the only error kind the client returns. Transport
// failures, non-2xx responses, and undecodable bodies all surface the same way.
type RequestFailedError struct {
	Op     string
	Status int
	Err    error
}

func (e *RequestFailedError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: request failed: status %d", e.Op, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
	}
	return e.Op + ": request failed"
}

func (e *RequestFailedError) Unwrap() error { return e.Err }
