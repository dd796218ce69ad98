// Package pipeline provides the orchestration for one outreach email request.
package pipeline

import (
	"context"
	"fmt"

	"github.com/nkhl07/cold-email-assistant/internal/aggregation"
	"github.com/nkhl07/cold-email-assistant/internal/extraction"
	"github.com/nkhl07/cold-email-assistant/internal/llm"
	"github.com/nkhl07/cold-email-assistant/internal/observability"
	"github.com/nkhl07/cold-email-assistant/internal/pipeline/steps"
	"github.com/nkhl07/cold-email-assistant/internal/prompts"
	"github.com/nkhl07/cold-email-assistant/internal/types"
)

// ProgressEvent represents a stage transition during pipeline execution
type ProgressEvent struct {
	Stage     string `json:"stage"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Content   any    `json:"content,omitempty"`
}

// ProgressCallback is called on every stage transition
type ProgressCallback func(event ProgressEvent)

// RunOptions holds per-request settings for running the pipeline
type RunOptions struct {
	RequestID string
	// Tracker must already be in the validated stage. A fresh one is created when nil.
	Tracker    *steps.Tracker
	OnProgress ProgressCallback
}

// Pipeline runs extraction then generation for validated requests.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	aggregator *aggregation.Aggregator
	generator  llm.EmailGenerator
	profiles   map[string]prompts.Profile
	log        *observability.Logger
}

// New creates a Pipeline with the shipped prompt profiles.
func New(extractor extraction.ContentExtractor, generator llm.EmailGenerator, log *observability.Logger) (*Pipeline, error) {
	if extractor == nil {
		return nil, fmt.Errorf("pipeline: extractor is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("pipeline: generator is required")
	}
	if log == nil {
		log = observability.Nop()
	}

	names, err := prompts.ProfileNames()
	if err != nil {
		return nil, err
	}
	profiles := make(map[string]prompts.Profile, len(names))
	for _, name := range names {
		profile, err := prompts.LoadProfile(name)
		if err != nil {
			return nil, err
		}
		profiles[name] = profile
	}
	for _, required := range []string{prompts.ProfileResume, prompts.ProfileFreeText} {
		if _, ok := profiles[required]; !ok {
			return nil, fmt.Errorf("pipeline: prompt profile %q is missing", required)
		}
	}

	return &Pipeline{
		aggregator: aggregation.New(extractor, log),
		generator:  generator,
		profiles:   profiles,
		log:        log,
	}, nil
}

// Run executes the pipeline for an already validated request.
func (p *Pipeline) Run(ctx context.Context, req *types.OutreachRequest) (types.GeneratedEmail, error) {
	return p.RunWithOptions(ctx, req, RunOptions{})
}

// RunWithOptions executes the pipeline, reporting each stage through opts.
// Exactly one extraction call precedes at most one generation call; nothing is retried.
func (p *Pipeline) RunWithOptions(ctx context.Context, req *types.OutreachRequest, opts RunOptions) (types.GeneratedEmail, error) {
	r := &run{pipeline: p, opts: opts, log: p.log}
	if opts.RequestID != "" {
		r.log = p.log.With("request_id", opts.RequestID)
	}
	if r.opts.Tracker == nil {
		r.opts.Tracker = steps.NewTracker()
		if err := r.advance(steps.StageReceived, "request received", nil); err != nil {
			return "", err
		}
		if err := r.advance(steps.StageValidated, "request validated", nil); err != nil {
			return "", err
		}
	} else if cur := r.opts.Tracker.Current(); cur != steps.StageValidated {
		return "", fmt.Errorf("pipeline: %w", &steps.TransitionError{From: cur, To: steps.StageContextAggregated})
	}

	email, err := r.execute(ctx, req)
	if err != nil {
		if r.opts.Tracker.Current() != steps.StageFailed {
			_ = r.advance(steps.StageFailed, err.Error(), nil)
		}
		return "", err
	}
	return email, nil
}

// run carries the per-request state of one RunWithOptions call.
type run struct {
	pipeline *Pipeline
	opts     RunOptions
	log      *observability.Logger
}

func (r *run) execute(ctx context.Context, req *types.OutreachRequest) (types.GeneratedEmail, error) {
	profile, err := r.pipeline.profileFor(req)
	if err != nil {
		return "", err
	}

	aggregated, err := r.pipeline.aggregator.Aggregate(ctx, req)
	if err != nil {
		return "", err
	}
	if err := r.advance(steps.StageContextAggregated,
		fmt.Sprintf("aggregated %d target and %d student characters", len([]rune(aggregated.TargetText)), len([]rune(aggregated.StudentText))),
		aggregated); err != nil {
		return "", err
	}

	prompt := prompts.Compose(profile, aggregated, req.Goal)
	if err := r.advance(steps.StagePromptComposed, fmt.Sprintf("composed prompt with profile %s", profile.Name), nil); err != nil {
		return "", err
	}

	text, err := r.pipeline.generator.Generate(ctx, prompt)
	if err != nil {
		return "", &GenerationError{Message: "email generation failed", Cause: err}
	}

	email := types.GeneratedEmail(llm.CleanEmailText(text))
	if email == "" {
		r.log.Warn("generator returned no usable text, using fallback")
		email = types.FallbackEmail
	}
	if err := r.advance(steps.StageGenerated, "email generated", nil); err != nil {
		return "", err
	}

	return email, nil
}

// advance records a stage transition, logs it and notifies the progress callback.
func (r *run) advance(stage, message string, content any) error {
	if err := r.opts.Tracker.Advance(stage); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	def := steps.StageRegistry[stage]
	if stage == steps.StageFailed {
		r.log.Warn("pipeline stage", "stage", stage, "message", message)
	} else {
		r.log.Debug("pipeline stage", "stage", stage, "message", message)
	}

	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{
			Stage:     stage,
			Category:  def.Category,
			Message:   message,
			RequestID: r.opts.RequestID,
			Content:   content,
		})
	}
	return nil
}

// profileFor picks the prompt profile matching the student context variant.
func (p *Pipeline) profileFor(req *types.OutreachRequest) (prompts.Profile, error) {
	if req == nil {
		return prompts.Profile{}, fmt.Errorf("pipeline: nil request")
	}
	switch req.Student.(type) {
	case *types.UploadedDocument:
		return p.profiles[prompts.ProfileResume], nil
	case *types.FreeText:
		return p.profiles[prompts.ProfileFreeText], nil
	default:
		return prompts.Profile{}, fmt.Errorf("pipeline: request has no student context")
	}
}
