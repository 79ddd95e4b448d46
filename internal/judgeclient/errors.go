package judgeclient

import (
	"fmt"
	"net/http"

	"ojspace/pkg/errors"
)

// APIError is a call the judge answered but did not accept: either a non-2xx
// HTTP status or an envelope whose code is not 200.
type APIError struct {
	StatusCode int
	Code       errors.ErrorCode
	Message    string
	TraceID    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("judge api error: code=%d http=%d", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("judge api error: %s (code=%d)", e.Message, e.Code)
}

// ErrorCode returns the envelope code, or one derived from the HTTP status
// when the body carried none.
func (e *APIError) ErrorCode() errors.ErrorCode {
	if e.Code != 0 {
		return e.Code
	}
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return errors.Unauthorized
	case http.StatusForbidden:
		return errors.Forbidden
	case http.StatusNotFound:
		return errors.NotFound
	case http.StatusTooManyRequests:
		return errors.TooManyRequests
	case http.StatusServiceUnavailable:
		return errors.ServiceUnavailable
	}
	return errors.RemoteRejected
}

// Unauthorized reports a rejected token.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.Code == errors.Unauthorized
}

// NotFound reports a missing problem or submission.
func (e *APIError) NotFound() bool {
	switch e.Code {
	case errors.NotFound, errors.ProblemNotFound, errors.SubmissionNotFound:
		return true
	}
	return e.StatusCode == http.StatusNotFound
}
