package scraper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nkhl07/cold-email-assistant/internal/fetch"
	"github.com/nkhl07/cold-email-assistant/internal/observability"
	"github.com/nkhl07/cold-email-assistant/internal/schemas"
	"github.com/nkhl07/cold-email-assistant/internal/server"
	"github.com/nkhl07/cold-email-assistant/internal/server/middleware"
	"github.com/nkhl07/cold-email-assistant/internal/validation"
)

// maxJSONBody caps the /scrape request body.
const maxJSONBody = 1 << 20

// ScrapeResponse is the /scrape response body.
type ScrapeResponse struct {
	CombinedText string `json:"combined_text"`
}

// ProcessResponse is the /process response body.
type ProcessResponse struct {
	CombinedText   string `json:"combined_text"`
	StudentProfile string `json:"student_profile"`
}

// Service exposes a Scraper over HTTP.
type Service struct {
	httpServer *http.Server
	scraper    *Scraper
	log        *observability.Logger
}

// NewService creates the extraction HTTP service listening on port.
func NewService(port int, s *Scraper, log *observability.Logger) (*Service, error) {
	if s == nil {
		return nil, fmt.Errorf("scraper service: scraper is required")
	}
	if log == nil {
		log = observability.Nop()
	}

	svc := &Service{scraper: s, log: log}
	svc.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      svc.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return svc, nil
}

// Handler returns the wrapped router.
func (svc *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /scrape", svc.handleScrape)
	mux.HandleFunc("POST /process", svc.handleProcess)
	mux.HandleFunc("GET /health", svc.handleHealth)

	return middleware.RequestID()(middleware.Logging(svc.log)(mux))
}

// Start blocks until the service stops.
func (svc *Service) Start() error {
	return server.ListenAndServe(svc.httpServer, svc.log)
}

func (svc *Service) handleScrape(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		svc.detailResponse(w, http.StatusUnprocessableEntity, "request body too large or unreadable")
		return
	}

	if err := schemas.Validate(schemas.ScrapeRequest, body); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			svc.detailResponse(w, http.StatusUnprocessableEntity, ve.Summary())
			return
		}
		svc.detailResponse(w, http.StatusUnprocessableEntity, "body must be a JSON object with a urls array")
		return
	}

	var req struct {
		URLs []string `json:"urls"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		svc.detailResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := validateURLs(req.URLs); err != nil {
		svc.detailResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	combined, err := svc.scraper.ScrapeAll(r.Context(), req.URLs)
	if err != nil {
		svc.log.Error("scrape failed", "error", err)
		svc.detailResponse(w, http.StatusInternalServerError, "scrape failed")
		return
	}

	svc.jsonResponse(w, http.StatusOK, ScrapeResponse{CombinedText: combined})
}

func (svc *Service) handleProcess(w http.ResponseWriter, r *http.Request) {
	limit := validation.DefaultMaxDocumentBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+maxJSONBody)

	if err := r.ParseMultipartForm(limit); err != nil {
		svc.detailResponse(w, http.StatusUnprocessableEntity, "body must be multipart/form-data with a pdf file")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile(validation.FieldDocument)
	if err != nil {
		svc.detailResponse(w, http.StatusUnprocessableEntity, "pdf file is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		svc.detailResponse(w, http.StatusUnprocessableEntity, "could not read pdf file")
		return
	}

	urls := []string{}
	if raw := r.FormValue(validation.FieldURLs); raw != "" {
		if err := json.Unmarshal([]byte(raw), &urls); err != nil {
			svc.detailResponse(w, http.StatusUnprocessableEntity, "urls must be a JSON array of strings")
			return
		}
	}
	if err := validateURLs(urls); err != nil {
		svc.detailResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	profile, err := ExtractPDFText(data)
	if err != nil {
		svc.log.Warn("pdf extraction failed", "error", err)
		svc.detailResponse(w, http.StatusUnprocessableEntity, fmt.Sprintf("could not read pdf: %v", err))
		return
	}

	combined, err := svc.scraper.ScrapeAll(r.Context(), urls)
	if err != nil {
		svc.log.Error("scrape failed", "error", err)
		svc.detailResponse(w, http.StatusInternalServerError, "scrape failed")
		return
	}

	svc.jsonResponse(w, http.StatusOK, ProcessResponse{CombinedText: combined, StudentProfile: profile})
}

func (svc *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	svc.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// validateURLs requires every entry to be an absolute http(s) URL.
func validateURLs(urls []string) error {
	for i, u := range urls {
		if err := fetch.ValidateURL(u); err != nil {
			return fmt.Errorf("urls[%d]: %q is not a valid http(s) URL", i, u)
		}
	}
	return nil
}

func (svc *Service) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		svc.log.Error("error encoding JSON response", "error", err)
	}
}

func (svc *Service) detailResponse(w http.ResponseWriter, status int, detail string) {
	svc.jsonResponse(w, status, map[string]string{"detail": detail})
}
