package backend

import "fmt"

// StatusError is the application-level failure branch of a strict call: the
// remote service answered, but with a non-success status. The response body
// travels along as diagnostic context.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote service returned status %d: %s", e.StatusCode, e.Body)
}
