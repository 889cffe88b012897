package report

import (
	"testing"

	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	steps := []domain.Step{
		{ID: "1", Order: 1, Instruction: "Open settings"},
		{ID: "2", Order: 2, Instruction: "Log out"},
	}
	results := []domain.Result{
		{SessionID: "a", StepID: "1", Kind: domain.ResultClick, Hit: true},
		{SessionID: "a", StepID: "2", Kind: domain.ResultClick, Hit: false},
		{SessionID: "a", StepID: domain.QuestionnaireStepID, Kind: domain.ResultQuestionnaire, Difficulty: 8, UnclearStep: "2", ExpectedMissing: "a | menu"},
		{SessionID: "b", StepID: "1", Kind: domain.ResultClick, Hit: true},
		{SessionID: "b", StepID: "9", Kind: domain.ResultClick, Hit: true},
		{SessionID: "c", StepID: "1", Kind: domain.ResultClick, Hit: false},
		{SessionID: "c", StepID: domain.QuestionnaireStepID, Kind: domain.ResultQuestionnaire, Difficulty: 4, UnclearStep: "none", ExpectedMissing: "none"},
	}

	s := Summarize(steps, results)
	assert.Equal(t, 3, s.Sessions)
	assert.Equal(t, 2, s.Completed)
	assert.InDelta(t, 6.0, s.AverageDifficulty(), 0.001)

	require.Len(t, s.Steps, 3)
	assert.Equal(t, StepSummary{StepID: "1", Order: 1, Instruction: "Open settings", Hits: 2, Misses: 1}, s.Steps[0])
	assert.Equal(t, 0, s.Steps[1].Hits)
	assert.Equal(t, 1, s.Steps[1].Misses)
	assert.Equal(t, StepSummary{StepID: "9", Hits: 1}, s.Steps[2], "clicks on deleted steps are kept")
	assert.InDelta(t, 2.0/3.0, s.Steps[0].HitRate(), 0.001)
}

func TestSummary_Markdown(t *testing.T) {
	s := Summarize(
		[]domain.Step{{ID: "1", Order: 1, Instruction: "Open\nsettings"}},
		[]domain.Result{
			{SessionID: "0123456789abcdef", StepID: "1", Hit: true},
			{SessionID: "0123456789abcdef", StepID: domain.QuestionnaireStepID, Difficulty: 3, UnclearStep: "x|y", ExpectedMissing: "none"},
			{SessionID: "old", StepID: "7", Hit: false},
		},
	)
	md := s.Markdown()

	assert.Contains(t, md, "- Participants: 2")
	assert.Contains(t, md, "- Average difficulty: 3.0 / 10")
	assert.Contains(t, md, "| 1 | 1 | Open settings | 1 | 0 | 100% |")
	assert.Contains(t, md, "| - | 7 | _(removed)_ | 0 | 1 | 0% |")
	assert.Contains(t, md, `| 01234567 | 3 | x\|y | none |`)
}

func TestSummary_MarkdownEmpty(t *testing.T) {
	md := Summarize(nil, nil).Markdown()
	assert.Contains(t, md, "_No steps configured._")
	assert.Contains(t, md, "_No questionnaire responses yet._")
	assert.NotContains(t, md, "Average difficulty")
}
