package domain

import "time"

// QuestionnaireStepID marks a Result row as the questionnaire response.
// It never collides with a real step id.
const QuestionnaireStepID = "-1"

// ResultKind distinguishes click rows from questionnaire rows.
type ResultKind string

const (
	ResultClick         ResultKind = "click"
	ResultQuestionnaire ResultKind = "questionnaire"
)

// Result is one append-only row of the test log.
type Result struct {
	SessionID string     `json:"session_id"`
	StepID    string     `json:"step_id"`
	Kind      ResultKind `json:"kind"`

	// Click fields
	Hit bool `json:"hit,omitempty"`
	X   int  `json:"x,omitempty"`
	Y   int  `json:"y,omitempty"`

	// Questionnaire fields
	Difficulty      int    `json:"difficulty,omitempty"`
	UnclearStep     string `json:"unclear_step,omitempty"`
	ExpectedMissing string `json:"expected_missing,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// IsQuestionnaire reports whether the row is the questionnaire response.
func (r Result) IsQuestionnaire() bool {
	return r.StepID == QuestionnaireStepID
}
