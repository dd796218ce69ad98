// Package server provides the HTTP API for the cold-email assistant.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nkhl07/cold-email-assistant/internal/aggregation"
	"github.com/nkhl07/cold-email-assistant/internal/llm"
	"github.com/nkhl07/cold-email-assistant/internal/pipeline"
	"github.com/nkhl07/cold-email-assistant/internal/validation"
)

// internalErrorMessage is shown for errors that carry no client-safe message.
const internalErrorMessage = "Internal server error"

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		missing   *validation.MissingInputError
		mediaType *validation.UnsupportedMediaTypeError
		tooLarge  *validation.PayloadTooLargeError
		invalid   *validation.InvalidRequestError
		aggErr    *aggregation.AggregationError
		genErr    *pipeline.GenerationError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &missing),
		errors.As(err, &mediaType),
		errors.As(err, &tooLarge),
		errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &aggErr), errors.As(err, &genErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the text written to the client for err.
// Unclassified errors are not echoed. Generation failures report only the
// provider status, never the provider's response body.
func ErrorMessage(err error) string {
	if err == nil || HTTPStatus(err) == http.StatusInternalServerError {
		return internalErrorMessage
	}

	var genErr *pipeline.GenerationError
	if errors.As(err, &genErr) {
		var apiErr *llm.APIError
		if errors.As(genErr, &apiErr) {
			return fmt.Sprintf("%s: provider returned status %d", genErr.Message, apiErr.StatusCode)
		}
		return genErr.Message
	}
	return err.Error()
}
