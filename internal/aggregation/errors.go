package aggregation

import (
	"errors"
	"fmt"

	"github.com/nkhl07/cold-email-assistant/internal/extraction"
)

// maxDetailChars caps the collaborator body echoed back to the caller.
const maxDetailChars = 500

// AggregationError is returned when the extraction collaborator fails.
// StatusCode is the collaborator's HTTP status, or 0 when no response was received.
type AggregationError struct {
	StatusCode int
	Detail     string
	Cause      error
}

func (e *AggregationError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("Scraper returned status %d: %s", e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("Scraper returned status %d", e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("content extraction failed: %v", e.Cause)
	default:
		return "content extraction failed"
	}
}

func (e *AggregationError) Unwrap() error {
	return e.Cause
}

// newAggregationError classifies an extractor failure.
func newAggregationError(err error) *AggregationError {
	aggErr := &AggregationError{Cause: err}

	var statusErr *extraction.StatusError
	if errors.As(err, &statusErr) {
		aggErr.StatusCode = statusErr.StatusCode
		aggErr.Detail = truncateDetail(statusErr.Body)
	}
	return aggErr
}

func truncateDetail(body string) string {
	runes := []rune(body)
	if len(runes) <= maxDetailChars {
		return body
	}
	return string(runes[:maxDetailChars])
}
