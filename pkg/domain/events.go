package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventClick         EventType = "click"
	EventTransition    EventType = "transition"
	EventQuestionnaire EventType = "questionnaire"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// ClickEvent is emitted after a click has been hit-tested and recorded.
type ClickEvent struct {
	EventBase
	StepID    string `json:"step_id"`
	StepIndex int    `json:"step_index"`
	Hit       bool   `json:"hit"`
}

// TransitionEvent is emitted when the flow controller moves between phases or steps.
type TransitionEvent struct {
	EventBase
	From     Phase `json:"from"`
	To       Phase `json:"to"`
	FromStep int   `json:"from_step"`
	ToStep   int   `json:"to_step"`
}

// QuestionnaireEvent is emitted once the questionnaire has been recorded.
type QuestionnaireEvent struct {
	EventBase
	Difficulty int `json:"difficulty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnClick         func(context.Context, *ClickEvent)
	OnTransition    func(context.Context, *TransitionEvent)
	OnQuestionnaire func(context.Context, *QuestionnaireEvent)
}
