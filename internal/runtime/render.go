package runtime

import "github.com/aretw0/spotcheck/pkg/domain"

// Render builds the view for state without side effects.
func (e *Engine) Render(state *domain.State, steps []domain.Step) domain.View {
	view := domain.View{
		Phase:      state.EffectivePhase(len(steps)),
		StepIndex:  state.StepIndex,
		TotalSteps: len(steps),
	}

	switch view.Phase {
	case domain.PhaseCompleted:
		view.Message = domain.CompletionMessage
	case domain.PhaseAwaitingQuestionnaire:
		view.Message = domain.QuestionnairePrompt
	default:
		step := steps[state.StepIndex]
		view.Instruction = step.Instruction
		view.ImageRef = step.ImageRef
	}
	return view
}
