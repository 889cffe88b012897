package domain

import "time"

// Phase is the coarse state of a test attempt.
type Phase string

const (
	PhaseInProgress            Phase = "in_progress"
	PhaseAwaitingQuestionnaire Phase = "awaiting_questionnaire"
	PhaseCompleted             Phase = "completed" // Sink state
)

// State represents the current snapshot of one participant's attempt.
type State struct {
	// StepIndex is the zero-based index into the ordered step sequence.
	StepIndex int `json:"step_index"`

	// Phase indicates if the participant is clicking, answering or done.
	Phase Phase `json:"phase"`

	// StartedAt is set when the attempt is created.
	StartedAt time.Time `json:"started_at"`

	// UpdatedAt is bumped on every committed transition.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a clean state at the first step.
func NewState(now time.Time) *State {
	return &State{
		StepIndex: 0,
		Phase:     PhaseInProgress,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// EffectivePhase resolves the phase against the current catalog size.
// An attempt whose index ran past the last step (the catalog shrank) is
// waiting for the questionnaire even if the stored phase still says otherwise.
func (s *State) EffectivePhase(stepCount int) Phase {
	if s.Phase == PhaseInProgress && s.StepIndex >= stepCount {
		return PhaseAwaitingQuestionnaire
	}
	return s.Phase
}

// Completed reports whether the attempt reached the sink state.
func (s *State) Completed() bool {
	return s.Phase == PhaseCompleted
}
