package inference

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies inference failures.
type Kind int

const (
	// KindConfig means the client is not usable, e.g. no API key.
	KindConfig Kind = iota

	// KindNetwork means the request never produced a response.
	KindNetwork

	// KindStatus means the service answered with a non-2xx status.
	KindStatus

	// KindMalformed means the response body was not valid JSON or had no
	// candidate text.
	KindMalformed

	// KindSchema means the JSON did not match the scan result schema.
	KindSchema
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	case KindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// Error is returned by every failing inference call.
type Error struct {
	Kind Kind

	// Status is the HTTP status for KindStatus, zero otherwise.
	Status int

	Err error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("inference %s error (HTTP %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("inference %s error: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Sentinel errors wrapped by *Error.
var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("API key is not set")

	// ErrInvalidProxyAddress is returned when the proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrNoCandidate is returned when the response carries no generated text.
	ErrNoCandidate = errors.New("response contains no candidate text")

	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("required field missing")
)

// DefaultMessage is shown when nothing more specific applies.
const DefaultMessage = "Failed to analyze content. Please ensure your API key is valid."

// UserMessage maps err to a short message fit for display.
// Raw error detail is never included.
func UserMessage(err error) string {
	var ierr *Error
	if !errors.As(err, &ierr) {
		return DefaultMessage
	}

	switch ierr.Kind {
	case KindNetwork:
		return "Failed to analyze content. The analysis service could not be reached."
	case KindStatus:
		switch {
		case ierr.Status == http.StatusUnauthorized, ierr.Status == http.StatusForbidden:
			return DefaultMessage
		case ierr.Status == http.StatusTooManyRequests:
			return "Failed to analyze content. The analysis service is rate limiting requests."
		case ierr.Status >= http.StatusInternalServerError:
			return "Failed to analyze content. The analysis service is temporarily unavailable."
		default:
			return "Failed to analyze content. The analysis service rejected the request."
		}
	case KindMalformed, KindSchema:
		return "Failed to analyze content. The analysis service returned an unexpected response."
	default:
		return DefaultMessage
	}
}

// RemediationTips returns the generic suggestions shown with a failure.
func RemediationTips() []string {
	return []string{
		"Verify that your API key is correctly configured.",
		"Ensure your network connection is stable.",
		"Try reducing the complexity of the input content.",
	}
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
