package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/aretw0/spotcheck/pkg/ports"
)

// Engine is the test-session state machine.
// It never persists session state itself: it takes the current State and an event,
// records the event, and returns the next State for the caller to commit.
type Engine struct {
	catalog   ports.Catalog
	recorder  ports.ResultRecorder
	sanitizer *Sanitizer
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	now       func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithSanitizer replaces the default questionnaire sanitizer.
func WithSanitizer(s *Sanitizer) EngineOption {
	return func(e *Engine) {
		if s != nil {
			e.sanitizer = s
		}
	}
}

// NewEngine creates a new engine reading steps from catalog and appending to recorder.
func NewEngine(catalog ports.Catalog, recorder ports.ResultRecorder, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:   catalog,
		recorder:  recorder,
		sanitizer: NewSanitizer(DefaultMaxTextSize),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Steps reads one ordered snapshot of the catalog.
// The snapshot is meant to be used for the whole interaction.
func (e *Engine) Steps(ctx context.Context) ([]domain.Step, error) {
	steps, err := e.catalog.ListSteps(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	return steps, nil
}

// Start creates the initial state for a fresh attempt.
// Returns domain.ErrEmptyCatalog when there is nothing to test.
func (e *Engine) Start(steps []domain.Step) (*domain.State, error) {
	if len(steps) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	return domain.NewState(e.now()), nil
}

func (e *Engine) emitTransition(ctx context.Context, sessionID string, from, to *domain.State) {
	if e.hooks.OnTransition == nil {
		return
	}
	if from.Phase == to.Phase && from.StepIndex == to.StepIndex {
		return
	}
	e.hooks.OnTransition(ctx, &domain.TransitionEvent{
		EventBase: domain.EventBase{
			Timestamp: to.UpdatedAt,
			Type:      domain.EventTransition,
			SessionID: sessionID,
		},
		From:     from.Phase,
		To:       to.Phase,
		FromStep: from.StepIndex,
		ToStep:   to.StepIndex,
	})
}
