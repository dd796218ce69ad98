// Package validation turns raw HTTP requests into canonical outreach requests.
package validation

import "fmt"

// MissingInputError indicates the request carries no student context.
type MissingInputError struct {
	Field   string
	Message string
}

func (e *MissingInputError) Error() string {
	return e.Message
}

// UnsupportedMediaTypeError indicates the uploaded document is not a PDF.
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	if e.MediaType == "" {
		return "Only PDF files are allowed"
	}
	return fmt.Sprintf("Only PDF files are allowed (got %s)", e.MediaType)
}

// PayloadTooLargeError indicates the uploaded document or request body exceeds the limit.
type PayloadTooLargeError struct {
	Size  int64 // -1 when the size is unknown
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("PDF file size must be under %dMB", e.Limit/(1024*1024))
}

// InvalidRequestError indicates a body that cannot be decoded or fails field checks.
type InvalidRequestError struct {
	Message string
	Cause   error
}

func (e *InvalidRequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid request: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

func (e *InvalidRequestError) Unwrap() error {
	return e.Cause
}
