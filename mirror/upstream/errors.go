package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNotFound = errors.New("not found")

// NotFoundError carries the upstream message so it can be relayed to callers verbatim.
type NotFoundError struct {
	StatusCode int
	Message    string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "not found"
	}
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StatusError is any other non-success upstream response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

// CheckStatus turns a non-success response into an error. Throttled responses must be
// classified by the rate-limit governor before this is called.
func CheckStatus(resp *Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return &NotFoundError{StatusCode: resp.StatusCode, Message: resp.Message()}
	case resp.StatusCode >= http.StatusBadRequest:
		return &StatusError{StatusCode: resp.StatusCode, Message: resp.Message()}
	}
	return nil
}
