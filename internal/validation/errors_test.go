package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingInputError(t *testing.T) {
	err := &MissingInputError{Field: "pdf", Message: "PDF file is required"}
	assert.Equal(t, "PDF file is required", err.Error())
}

func TestUnsupportedMediaTypeError(t *testing.T) {
	assert.Equal(t, "Only PDF files are allowed", (&UnsupportedMediaTypeError{}).Error())
	assert.Equal(t, "Only PDF files are allowed (got image/png)", (&UnsupportedMediaTypeError{MediaType: "image/png"}).Error())
}

func TestPayloadTooLargeError(t *testing.T) {
	err := &PayloadTooLargeError{Size: 6 << 20, Limit: 5 << 20}
	assert.Equal(t, "PDF file size must be under 5MB", err.Error())
}

func TestInvalidRequestError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &InvalidRequestError{Message: "bad body", Cause: cause}
	assert.Equal(t, "invalid request: bad body: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "invalid request: bad body", (&InvalidRequestError{Message: "bad body"}).Error())
}
