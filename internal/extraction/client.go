// Package extraction is the client side of the content-extraction collaborator.
// The collaborator fetches target URLs and/or parses an uploaded résumé and returns plain text.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/nkhl07/cold-email-assistant/internal/schemas"
	"github.com/nkhl07/cold-email-assistant/internal/types"
)

// DefaultTimeout bounds one call to the collaborator.
const DefaultTimeout = 60 * time.Second

// maxResponseBytes caps how much of a collaborator response is read.
const maxResponseBytes = 8 << 20

// Request is one combined extraction call.
type Request struct {
	// URLs are visited in order. Never nil when sent.
	URLs []string
	// Document is the résumé to parse; nil when the student supplied free text.
	Document *types.UploadedDocument
}

// Result is the collaborator's merged output.
type Result struct {
	CombinedText   string `json:"combined_text"`
	StudentProfile string `json:"student_profile"`
}

// ContentExtractor turns URLs and an optional document into text.
type ContentExtractor interface {
	Extract(ctx context.Context, req Request) (*Result, error)
}

// Options configures the HTTP client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPClient calls the collaborator's /scrape and /process endpoints.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the collaborator at opts.BaseURL.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("extraction base URL is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Extract performs exactly one HTTP call: /process when a document is present, /scrape otherwise.
func (c *HTTPClient) Extract(ctx context.Context, req Request) (*Result, error) {
	urls := req.URLs
	if urls == nil {
		urls = []string{}
	}

	if req.Document != nil {
		return c.process(ctx, urls, req.Document)
	}
	return c.scrape(ctx, urls)
}

func (c *HTTPClient) scrape(ctx context.Context, urls []string) (*Result, error) {
	payload, err := json.Marshal(map[string][]string{"urls": urls})
	if err != nil {
		return nil, &Error{Endpoint: "/scrape", Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape", bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Endpoint: "/scrape", Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, "/scrape", schemas.ScrapeResponse)
}

func (c *HTTPClient) process(ctx context.Context, urls []string, doc *types.UploadedDocument) (*Result, error) {
	body, contentType, err := encodeProcessBody(urls, doc)
	if err != nil {
		return nil, &Error{Endpoint: "/process", Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process", body)
	if err != nil {
		return nil, &Error{Endpoint: "/process", Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", contentType)

	return c.do(httpReq, "/process", schemas.ProcessResponse)
}

// do sends the request, maps non-2xx to *StatusError, and checks the body against schemaName.
func (c *HTTPClient) do(httpReq *http.Request, endpoint, schemaName string) (*Result, error) {
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(data)}
	}

	if err := schemas.Validate(schemaName, data); err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "malformed response", Cause: err}
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "malformed response", Cause: err}
	}
	return &result, nil
}

// encodeProcessBody writes the multipart body for /process: the PDF part and the JSON url list.
func encodeProcessBody(urls []string, doc *types.UploadedDocument) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := doc.Filename
	if filename == "" {
		filename = "resume.pdf"
	}
	mediaType := doc.MediaType
	if mediaType == "" {
		mediaType = "application/pdf"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pdf"; filename=%q`, filename))
	h.Set("Content-Type", mediaType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, "", err
	}

	encodedURLs, err := json.Marshal(urls)
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("urls", string(encodedURLs)); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
