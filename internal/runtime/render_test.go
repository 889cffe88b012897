package runtime_test

import (
	"testing"

	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestEngine_Render(t *testing.T) {
	eng, rec := newEngine()
	steps := threeSteps()

	t.Run("In Progress", func(t *testing.T) {
		view := eng.Render(&domain.State{StepIndex: 1, Phase: domain.PhaseInProgress}, steps)
		assert.Equal(t, domain.PhaseInProgress, view.Phase)
		assert.Equal(t, "Find billing", view.Instruction)
		assert.Equal(t, "b.png", view.ImageRef)
		assert.Equal(t, 3, view.TotalSteps)
	})

	t.Run("Awaiting Questionnaire", func(t *testing.T) {
		view := eng.Render(&domain.State{Phase: domain.PhaseAwaitingQuestionnaire}, steps)
		assert.Equal(t, domain.QuestionnairePrompt, view.Message)
		assert.Empty(t, view.Instruction)
	})

	t.Run("Past Last Step", func(t *testing.T) {
		view := eng.Render(&domain.State{StepIndex: 3, Phase: domain.PhaseInProgress}, steps)
		assert.Equal(t, domain.PhaseAwaitingQuestionnaire, view.Phase)
	})

	t.Run("Completed", func(t *testing.T) {
		view := eng.Render(&domain.State{Phase: domain.PhaseCompleted}, steps)
		assert.Equal(t, domain.CompletionMessage, view.Message)
	})

	assert.Equal(t, 0, rec.Len(), "render has no side effects")
}
