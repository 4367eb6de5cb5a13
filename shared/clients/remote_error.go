// Package clients holds the HTTP clients the two services use to call each
// other. The caller's bearer token is always forwarded unchanged in the
// Authorization header.
package clients

import "fmt"

// RemoteError carries a non-2xx status from a dependent service so handlers
// can propagate it to the caller.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote call failed with status %d: %s", e.StatusCode, e.Message)
}
