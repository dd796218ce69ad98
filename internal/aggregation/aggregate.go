// Package aggregation gathers the target and student text for one outreach request.
package aggregation

import (
	"context"
	"fmt"

	"github.com/nkhl07/cold-email-assistant/internal/extraction"
	"github.com/nkhl07/cold-email-assistant/internal/ingestion"
	"github.com/nkhl07/cold-email-assistant/internal/observability"
	"github.com/nkhl07/cold-email-assistant/internal/types"
)

// Aggregator turns a validated request into bounded prompt context.
type Aggregator struct {
	extractor extraction.ContentExtractor
	log       *observability.Logger
}

// New creates an Aggregator backed by extractor.
func New(extractor extraction.ContentExtractor, log *observability.Logger) *Aggregator {
	if log == nil {
		log = observability.Nop()
	}
	return &Aggregator{extractor: extractor, log: log}
}

// Aggregate calls the extractor exactly once and bounds its output.
// On failure no partial context is returned.
func (a *Aggregator) Aggregate(ctx context.Context, req *types.OutreachRequest) (types.AggregatedContext, error) {
	if req == nil || req.Student == nil {
		return types.AggregatedContext{}, fmt.Errorf("aggregate: request has no student context")
	}

	urls := req.TargetURLs
	if urls == nil {
		urls = []string{}
	}
	doc := req.Document()

	a.log.Debug("calling extractor", "urls", len(urls), "document", doc != nil)

	result, err := a.extractor.Extract(ctx, extraction.Request{URLs: urls, Document: doc})
	if err != nil {
		aggErr := newAggregationError(err)
		a.log.Warn("extraction failed", "status", aggErr.StatusCode, "error", err)
		return types.AggregatedContext{}, aggErr
	}
	if result == nil {
		return types.AggregatedContext{}, &AggregationError{Cause: fmt.Errorf("extractor returned no result")}
	}

	var studentText string
	switch src := req.Student.(type) {
	case *types.UploadedDocument:
		studentText = result.StudentProfile
	case *types.FreeText:
		studentText = src.Text
	}

	aggregated := types.AggregatedContext{
		TargetText:  ingestion.Bound(result.CombinedText, ingestion.MaxTargetChars),
		StudentText: ingestion.Bound(studentText, ingestion.MaxStudentChars),
	}

	a.log.Debug("context aggregated",
		"target_chars", len([]rune(aggregated.TargetText)),
		"student_chars", len([]rune(aggregated.StudentText)))

	return aggregated, nil
}
