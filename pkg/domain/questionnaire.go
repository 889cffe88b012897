package domain

import (
	"fmt"
	"strings"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// Questionnaire is the participant's closing feedback.
type Questionnaire struct {
	Difficulty      int    `json:"difficulty"`
	UnclearStep     string `json:"unclearStep"`
	ExpectedMissing string `json:"expectedMissing"`
}

// Validate checks that every field is present and the rating is in range.
func (q Questionnaire) Validate() error {
	if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
		return fmt.Errorf("%w: difficulty %d not in %d..%d", ErrInvalidQuestionnaire, q.Difficulty, MinDifficulty, MaxDifficulty)
	}
	if strings.TrimSpace(q.UnclearStep) == "" {
		return fmt.Errorf("%w: unclear step answer is required", ErrInvalidQuestionnaire)
	}
	if strings.TrimSpace(q.ExpectedMissing) == "" {
		return fmt.Errorf("%w: expected-but-missing answer is required", ErrInvalidQuestionnaire)
	}
	return nil
}
