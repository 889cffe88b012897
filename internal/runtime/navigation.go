package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/spotcheck/pkg/domain"
)

// Click hit-tests a click against the current step and records it.
//
// A hit advances to the next step, or to the questionnaire after the last one.
// A miss always diverts to the questionnaire. The returned state must only be
// committed by the caller; on error the input state is still authoritative.
func (e *Engine) Click(ctx context.Context, sessionID string, state *domain.State, steps []domain.Step, click domain.Click) (*domain.State, error) {
	if phase := state.EffectivePhase(len(steps)); phase != domain.PhaseInProgress {
		return nil, fmt.Errorf("%w: click while %s", domain.ErrInvalidTransition, phase)
	}
	if click.StepIndex < 0 || click.StepIndex >= len(steps) {
		return nil, fmt.Errorf("%w: %d (catalog has %d steps)", domain.ErrStepOutOfRange, click.StepIndex, len(steps))
	}
	// The server-held index is authoritative; the client's copy is only a consistency check.
	if click.StepIndex != state.StepIndex {
		return nil, fmt.Errorf("%w: client %d, session %d", domain.ErrStepMismatch, click.StepIndex, state.StepIndex)
	}

	step := steps[state.StepIndex]
	hit := step.Hotspot.Contains(click.X, click.Y)

	if err := e.recorder.RecordClick(ctx, sessionID, step.ID, hit, click.X, click.Y); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRecordFailed, err)
	}

	next := *state
	next.UpdatedAt = e.now()
	if hit {
		next.StepIndex++
		if next.StepIndex >= len(steps) {
			next.Phase = domain.PhaseAwaitingQuestionnaire
		}
	} else {
		next.Phase = domain.PhaseAwaitingQuestionnaire
	}

	e.logger.Debug("click evaluated",
		"session_id", sessionID,
		"step_id", step.ID,
		"step_index", state.StepIndex,
		"hit", hit,
		"phase", next.Phase,
	)

	if e.hooks.OnClick != nil {
		e.hooks.OnClick(ctx, &domain.ClickEvent{
			EventBase: domain.EventBase{
				Timestamp: next.UpdatedAt,
				Type:      domain.EventClick,
				SessionID: sessionID,
			},
			StepID:    step.ID,
			StepIndex: state.StepIndex,
			Hit:       hit,
		})
	}
	e.emitTransition(ctx, sessionID, state, &next)

	return &next, nil
}

// Submit validates and records the questionnaire and completes the attempt.
// Malformed input is rejected before anything is recorded.
func (e *Engine) Submit(ctx context.Context, sessionID string, state *domain.State, steps []domain.Step, q domain.Questionnaire) (*domain.State, error) {
	if phase := state.EffectivePhase(len(steps)); phase != domain.PhaseAwaitingQuestionnaire {
		return nil, fmt.Errorf("%w: questionnaire while %s", domain.ErrInvalidTransition, phase)
	}

	clean, err := e.sanitizer.Questionnaire(q)
	if err != nil {
		return nil, err
	}

	if err := e.recorder.RecordQuestionnaire(ctx, sessionID, clean); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRecordFailed, err)
	}

	next := *state
	next.Phase = domain.PhaseCompleted
	next.UpdatedAt = e.now()

	e.logger.Debug("questionnaire recorded", "session_id", sessionID, "difficulty", clean.Difficulty)

	if e.hooks.OnQuestionnaire != nil {
		e.hooks.OnQuestionnaire(ctx, &domain.QuestionnaireEvent{
			EventBase: domain.EventBase{
				Timestamp: next.UpdatedAt,
				Type:      domain.EventQuestionnaire,
				SessionID: sessionID,
			},
			Difficulty: clean.Difficulty,
		})
	}
	e.emitTransition(ctx, sessionID, state, &next)

	return &next, nil
}
