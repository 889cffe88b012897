package domain

// View is what the host should render for the participant after an interaction.
type View struct {
	Phase Phase `json:"phase"`

	// Step fields are only set while the phase is in progress.
	StepIndex   int    `json:"stepIndex"`
	TotalSteps  int    `json:"totalSteps"`
	Instruction string `json:"instruction,omitempty"`
	ImageRef    string `json:"image,omitempty"`

	// Message is a participant-facing note (questionnaire prompt or thank-you).
	Message string `json:"message,omitempty"`
}

const (
	QuestionnairePrompt = "Final Questions"
	CompletionMessage   = "Thank you for completing the test!"
)
