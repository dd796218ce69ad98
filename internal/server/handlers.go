package server

import (
	"net/http"

	"github.com/nkhl07/cold-email-assistant/internal/pipeline"
	"github.com/nkhl07/cold-email-assistant/internal/pipeline/steps"
	"github.com/nkhl07/cold-email-assistant/internal/server/middleware"
	"github.com/nkhl07/cold-email-assistant/internal/types"
)

// handleGenerateEmail validates the request, runs the pipeline and writes {email} or {error}
func (s *Server) handleGenerateEmail(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	log := s.log.With("request_id", requestID)

	tracker := steps.NewTracker()
	advance := func(stage string) {
		if err := tracker.Advance(stage); err != nil {
			log.Error("stage tracking failed", "error", err)
			return
		}
		log.Debug("pipeline stage", "stage", stage)
	}
	fail := func(err error) {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed", "status", status, "error", err)
		} else {
			log.Info("request rejected", "status", status, "error", err)
		}
		if !tracker.Done() {
			advance(steps.StageFailed)
		}
		s.errorResponse(w, status, ErrorMessage(err))
	}

	advance(steps.StageReceived)

	r.Body = http.MaxBytesReader(w, r.Body, s.validator.BodyLimit())
	req, err := s.validator.Parse(r)
	if err != nil {
		fail(err)
		return
	}
	advance(steps.StageValidated)

	email, err := s.pipeline.RunWithOptions(r.Context(), req, pipeline.RunOptions{
		RequestID: requestID,
		Tracker:   tracker,
	})
	if err != nil {
		fail(err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.GenerateEmailResponse{Email: string(email)})
	advance(steps.StageResponded)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
