// Package steps provides stage definitions and transition checks
// for the outreach request lifecycle.
package steps

import (
	"fmt"
	"sync"
)

// Stage names, in lifecycle order.
const (
	StageReceived          = "received"
	StageValidated         = "validated"
	StageContextAggregated = "context_aggregated"
	StagePromptComposed    = "prompt_composed"
	StageGenerated         = "generated"
	StageResponded         = "responded"
	StageFailed            = "failed"
)

// Stage categories.
const (
	CategoryIntake     = "intake"
	CategoryContext    = "context"
	CategoryGeneration = "generation"
	CategoryResponse   = "response"
)

// StageDefinition defines metadata for a lifecycle stage
type StageDefinition struct {
	Name     string
	Category string
	// Dependencies lists the stages this one may directly follow.
	Dependencies []string
	Terminal     bool
}

// nonTerminal are the stages a request may fail from.
var nonTerminal = []string{
	StageReceived, StageValidated, StageContextAggregated, StagePromptComposed, StageGenerated,
}

// StageRegistry holds all stage definitions
var StageRegistry = map[string]StageDefinition{
	StageReceived: {
		Name:         StageReceived,
		Category:     CategoryIntake,
		Dependencies: []string{},
	},
	StageValidated: {
		Name:         StageValidated,
		Category:     CategoryIntake,
		Dependencies: []string{StageReceived},
	},
	StageContextAggregated: {
		Name:         StageContextAggregated,
		Category:     CategoryContext,
		Dependencies: []string{StageValidated},
	},
	StagePromptComposed: {
		Name:         StagePromptComposed,
		Category:     CategoryGeneration,
		Dependencies: []string{StageContextAggregated},
	},
	StageGenerated: {
		Name:         StageGenerated,
		Category:     CategoryGeneration,
		Dependencies: []string{StagePromptComposed},
	},
	StageResponded: {
		Name:         StageResponded,
		Category:     CategoryResponse,
		Dependencies: []string{StageGenerated},
		Terminal:     true,
	},
	StageFailed: {
		Name:         StageFailed,
		Category:     CategoryResponse,
		Dependencies: nonTerminal,
		Terminal:     true,
	},
}

// TransitionError represents an illegal stage transition
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	from := e.From
	if from == "" {
		from = "(start)"
	}
	return fmt.Sprintf("illegal stage transition: %s -> %s", from, e.To)
}

// ValidateTransition checks that to may directly follow from.
// An empty from means the request has not entered any stage yet.
func ValidateTransition(from, to string) error {
	def, ok := StageRegistry[to]
	if !ok {
		return fmt.Errorf("unknown stage: %s", to)
	}

	if from == "" {
		if len(def.Dependencies) == 0 {
			return nil
		}
		return &TransitionError{From: from, To: to}
	}

	for _, dep := range def.Dependencies {
		if dep == from {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}

// Tracker records the stages one request has passed through.
// No stage is ever revisited.
type Tracker struct {
	mu      sync.Mutex
	history []string
}

// NewTracker returns a tracker that has not entered any stage.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Advance moves to stage, or returns an error if the transition is illegal.
func (t *Tracker) Advance(stage string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ValidateTransition(t.current(), stage); err != nil {
		return err
	}
	t.history = append(t.history, stage)
	return nil
}

// Current returns the latest stage, or "" before the first Advance.
func (t *Tracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current()
}

// History returns a copy of the stages visited so far.
func (t *Tracker) History() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.history))
	copy(out, t.history)
	return out
}

// Done reports whether the request reached a terminal stage.
func (t *Tracker) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := t.current()
	return cur != "" && StageRegistry[cur].Terminal
}

func (t *Tracker) current() string {
	if len(t.history) == 0 {
		return ""
	}
	return t.history[len(t.history)-1]
}
