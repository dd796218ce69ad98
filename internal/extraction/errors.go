package extraction

import (
	"fmt"
	"unicode/utf8"

	"github.com/nkhl07/cold-email-assistant/internal/ingestion"
)

// maxBodyInError caps how many characters of a collaborator response body are echoed in an error.
const maxBodyInError = 500

// Error represents a failure talking to the collaborator (transport, encoding, malformed response).
type Error struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction %s: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusError is returned when the collaborator answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if utf8.RuneCountInString(body) > maxBodyInError {
		body = ingestion.Truncate(body, maxBodyInError) + "..."
	}
	if body == "" {
		return fmt.Sprintf("Scraper returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("Scraper returned status %d: %s", e.StatusCode, body)
}
