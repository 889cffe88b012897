package domain

// Click is a click submission. X and Y are in the image's native resolution;
// scaling from the rendered size is the caller's job.
type Click struct {
	X         int `json:"x"`
	Y         int `json:"y"`
	StepIndex int `json:"stepIndex"`
}

// Interaction is one incoming request. At most one field is set;
// when both are nil the request only renders the current state.
type Interaction struct {
	Click         *Click
	Questionnaire *Questionnaire
}

// IsRender reports whether the interaction carries no event.
func (i Interaction) IsRender() bool {
	return i.Click == nil && i.Questionnaire == nil
}
