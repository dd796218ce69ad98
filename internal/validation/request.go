package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/nkhl07/cold-email-assistant/internal/ingestion"
	"github.com/nkhl07/cold-email-assistant/internal/observability"
	"github.com/nkhl07/cold-email-assistant/internal/types"
)

// Variant selects which request shape a deployment accepts.
type Variant string

const (
	// VariantText accepts a JSON body with a free-text student profile.
	VariantText Variant = "text"
	// VariantDocument accepts a multipart body with a PDF résumé.
	VariantDocument Variant = "document"
)

// Form field names used by the document variant.
const (
	FieldDocument = "pdf"
	FieldURLs     = "urls"
	FieldGoal     = "goal"
)

const (
	// DefaultMaxDocumentBytes is the largest résumé accepted (5 MiB).
	DefaultMaxDocumentBytes int64 = 5 * 1024 * 1024
	// multipartOverhead is the body allowance beyond the document for form fields and boundaries.
	multipartOverhead int64 = 1 << 20
	// maxJSONBodyBytes caps the text variant's body.
	maxJSONBodyBytes int64 = 1 << 20
)

// Validator parses and checks incoming requests for one variant.
type Validator struct {
	Variant          Variant
	MaxDocumentBytes int64
	log              *observability.Logger
}

// New creates a validator for the given variant.
func New(variant Variant, log *observability.Logger) *Validator {
	if log == nil {
		log = observability.Nop()
	}
	return &Validator{
		Variant:          variant,
		MaxDocumentBytes: DefaultMaxDocumentBytes,
		log:              log,
	}
}

// BodyLimit returns the maximum request body size callers should enforce with http.MaxBytesReader.
func (v *Validator) BodyLimit() int64 {
	if v.Variant == VariantDocument {
		return v.maxDocumentBytes() + multipartOverhead
	}
	return maxJSONBodyBytes
}

// Parse validates r and returns the canonical request. No network calls are made.
func (v *Validator) Parse(r *http.Request) (*types.OutreachRequest, error) {
	switch v.Variant {
	case VariantDocument:
		return v.ParseMultipart(r)
	case VariantText, "":
		return ParseJSON(r.Body)
	default:
		return nil, fmt.Errorf("unknown request variant %q", v.Variant)
	}
}

// ParseJSON decodes and validates the text variant body.
func ParseJSON(body io.Reader) (*types.OutreachRequest, error) {
	var req types.GenerateEmailRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &PayloadTooLargeError{Size: -1, Limit: maxErr.Limit}
		}
		return nil, &InvalidRequestError{Message: "body must be a JSON object with urls, studentProfile and goal", Cause: err}
	}

	if strings.TrimSpace(req.StudentProfile) == "" {
		return nil, &MissingInputError{Field: "studentProfile", Message: "studentProfile is required"}
	}

	if err := req.Validate(); err != nil {
		return nil, &InvalidRequestError{Message: "field validation failed", Cause: err}
	}

	return &types.OutreachRequest{
		TargetURLs: ingestion.NormalizeURLs(req.URLs),
		Student:    &types.FreeText{Text: req.StudentProfile},
		Goal:       req.Goal,
	}, nil
}

// ParseMultipart decodes and validates the document variant body.
// Callers should cap r.Body with BodyLimit first.
func (v *Validator) ParseMultipart(r *http.Request) (*types.OutreachRequest, error) {
	limit := v.maxDocumentBytes()

	if err := r.ParseMultipartForm(limit + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &PayloadTooLargeError{Size: -1, Limit: limit}
		}
		return nil, &InvalidRequestError{Message: "body must be multipart/form-data", Cause: err}
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(FieldDocument)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, &MissingInputError{Field: FieldDocument, Message: "PDF file is required"}
		}
		return nil, &InvalidRequestError{Message: "could not read uploaded file", Cause: err}
	}
	defer func() { _ = file.Close() }()

	doc, err := readDocument(file, header, limit)
	if err != nil {
		return nil, err
	}

	return &types.OutreachRequest{
		TargetURLs: v.parseURLField(r.FormValue(FieldURLs)),
		Student:    doc,
		Goal:       r.FormValue(FieldGoal),
	}, nil
}

// readDocument applies the media type and size checks, in that order, then reads the bytes.
func readDocument(file multipart.File, header *multipart.FileHeader, limit int64) (*types.UploadedDocument, error) {
	mediaType := header.Header.Get("Content-Type")
	if !IsPDF(mediaType) {
		return nil, &UnsupportedMediaTypeError{MediaType: mediaType}
	}

	if header.Size > limit {
		return nil, &PayloadTooLargeError{Size: header.Size, Limit: limit}
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, &InvalidRequestError{Message: "could not read uploaded file", Cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &PayloadTooLargeError{Size: int64(len(data)), Limit: limit}
	}

	return &types.UploadedDocument{
		Filename:  header.Filename,
		MediaType: mediaType,
		Size:      header.Size,
		Data:      data,
	}, nil
}

// parseURLField reads the serialized URL list leniently: malformed input yields an empty list.
func (v *Validator) parseURLField(raw string) []string {
	urls, err := ParseURLList(raw)
	if err != nil {
		v.log.Warn("ignoring malformed url list", "error", err)
		return []string{}
	}
	return urls
}

// ParseURLList decodes a JSON array of strings and normalizes each URL.
// Blank input is an empty list.
func ParseURLList(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}

	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, fmt.Errorf("urls must be a JSON array of strings: %w", err)
	}
	return ingestion.NormalizeURLs(urls), nil
}

// IsPDF reports whether a declared media type indicates a PDF document.
func IsPDF(mediaType string) bool {
	return strings.Contains(strings.ToLower(mediaType), "pdf")
}

func (v *Validator) maxDocumentBytes() int64 {
	if v.MaxDocumentBytes > 0 {
		return v.MaxDocumentBytes
	}
	return DefaultMaxDocumentBytes
}
