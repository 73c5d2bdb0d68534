package dealer

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a dealer API failure. The synchronizer dispatches on
// this discriminant instead of parsing error text.
type ErrorKind string

const (
	// KindNotFound means the target car id does not exist remotely. This is
	// the signal that drives drift recovery.
	KindNotFound ErrorKind = "not_found"
	// KindRateLimited means the platform rejected the call for throttling.
	KindRateLimited ErrorKind = "rate_limited"
	// KindInvalid means the platform rejected the payload.
	KindInvalid ErrorKind = "invalid"
	// KindUnauthorized means authentication or authorization failed.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindTransport covers network failures and unclassified responses.
	KindTransport ErrorKind = "transport"
)

// APIError is the tagged error returned by every dealer API call.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("dealer api: %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("dealer api: %s: %s", e.Kind, e.Message)
}

// IsNotFound reports whether err is a dealer not-found failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// kindFromStatus maps an HTTP response status onto an error kind.
func kindFromStatus(status int) ErrorKind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status >= 400 && status < 500:
		return KindInvalid
	default:
		return KindTransport
	}
}
