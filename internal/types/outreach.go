// Package types provides type definitions for structured data used throughout the cold-email assistant.
package types

import (
	"github.com/go-playground/validator/v10"
)

// FallbackEmail is returned in place of an email when generation yields no usable text.
const FallbackEmail = "Sorry, I could not generate an email."

// StudentContextSource is where the student's background comes from.
// Implemented by UploadedDocument and FreeText only.
type StudentContextSource interface {
	studentContext()
}

// UploadedDocument is a résumé uploaded with the request.
type UploadedDocument struct {
	Filename  string
	MediaType string
	Size      int64
	Data      []byte
}

func (*UploadedDocument) studentContext() {}

// FreeText is a free-form background description typed by the student.
type FreeText struct {
	Text string
}

func (*FreeText) studentContext() {}

// OutreachRequest is the canonical, validated form of an incoming request.
type OutreachRequest struct {
	// TargetURLs are absolute URLs in the order the extractor should visit them.
	TargetURLs []string
	Student    StudentContextSource
	Goal       string
}

// Document returns the uploaded résumé, or nil when the student supplied free text.
func (r *OutreachRequest) Document() *UploadedDocument {
	if doc, ok := r.Student.(*UploadedDocument); ok {
		return doc
	}
	return nil
}

// AggregatedContext holds the normalized, length-capped text fed into the prompt.
type AggregatedContext struct {
	TargetText  string
	StudentText string
}

// GeneratedEmail is the email body returned to the caller.
type GeneratedEmail string

// GenerateEmailRequest is the JSON body accepted by the text request variant.
type GenerateEmailRequest struct {
	URLs           []string `json:"urls" validate:"dive,max=2048"`
	StudentProfile string   `json:"studentProfile"`
	Goal           string   `json:"goal" validate:"max=4000"`
}

// Validate checks field-level constraints on the request body.
func (r *GenerateEmailRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// GenerateEmailResponse is the success body.
type GenerateEmailResponse struct {
	Email string `json:"email"`
}

// ErrorResponse is the body written on every failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
