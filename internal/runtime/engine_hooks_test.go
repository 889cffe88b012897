package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/spotcheck/internal/runtime"
	"github.com/aretw0/spotcheck/pkg/adapters/memory"
	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	var clicks []domain.ClickEvent
	var transitions []domain.TransitionEvent
	var questionnaires int

	hooks := domain.LifecycleHooks{
		OnClick:         func(_ context.Context, e *domain.ClickEvent) { clicks = append(clicks, *e) },
		OnTransition:    func(_ context.Context, e *domain.TransitionEvent) { transitions = append(transitions, *e) },
		OnQuestionnaire: func(_ context.Context, e *domain.QuestionnaireEvent) { questionnaires++ },
	}
	eng := runtime.NewEngine(memory.NewCatalog(threeSteps()...), memory.NewRecorder(), runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()
	steps, _ := eng.Steps(ctx)
	state, _ := eng.Start(steps)

	state, err := eng.Click(ctx, "s1", state, steps, domain.Click{X: 30, Y: 30, StepIndex: 0})
	require.NoError(t, err)
	state, err = eng.Click(ctx, "s1", state, steps, domain.Click{X: 500, Y: 500, StepIndex: 1})
	require.NoError(t, err)
	_, err = eng.Submit(ctx, "s1", state, steps, domain.Questionnaire{Difficulty: 9, UnclearStep: "x", ExpectedMissing: "y"})
	require.NoError(t, err)

	require.Len(t, clicks, 2)
	assert.True(t, clicks[0].Hit)
	assert.False(t, clicks[1].Hit)
	assert.Equal(t, "12", clicks[1].StepID)

	require.Len(t, transitions, 3)
	assert.Equal(t, 1, transitions[0].ToStep)
	assert.Equal(t, domain.PhaseAwaitingQuestionnaire, transitions[1].To)
	assert.Equal(t, domain.PhaseCompleted, transitions[2].To)
	assert.Equal(t, 1, questionnaires)
}
