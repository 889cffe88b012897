package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/spotcheck/pkg/domain"
)

// Recorder implements ports.ResultRecorder and ports.ResultReader in memory.
type Recorder struct {
	mu      sync.RWMutex
	results []domain.Result
	now     func() time.Time
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// RecordClick appends a click row.
func (r *Recorder) RecordClick(ctx context.Context, sessionID, stepID string, hit bool, x, y int) error {
	r.append(domain.Result{
		SessionID: sessionID,
		StepID:    stepID,
		Kind:      domain.ResultClick,
		Hit:       hit,
		X:         x,
		Y:         y,
	})
	return nil
}

// RecordQuestionnaire appends the questionnaire row, once per session.
func (r *Recorder) RecordQuestionnaire(ctx context.Context, sessionID string, q domain.Questionnaire) error {
	r.mu.RLock()
	for _, res := range r.results {
		if res.SessionID == sessionID && res.Kind == domain.ResultQuestionnaire {
			r.mu.RUnlock()
			return nil
		}
	}
	r.mu.RUnlock()

	r.append(domain.Result{
		SessionID:       sessionID,
		StepID:          domain.QuestionnaireStepID,
		Kind:            domain.ResultQuestionnaire,
		Difficulty:      q.Difficulty,
		UnclearStep:     q.UnclearStep,
		ExpectedMissing: q.ExpectedMissing,
	})
	return nil
}

func (r *Recorder) append(res domain.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.Timestamp = r.now()
	r.results = append(r.results, res)
}

// ListResults returns recorded rows, oldest first.
func (r *Recorder) ListResults(ctx context.Context, sessionID string) ([]domain.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Result, 0, len(r.results))
	for _, res := range r.results {
		if sessionID == "" || res.SessionID == sessionID {
			out = append(out, res)
		}
	}
	return out, nil
}

// Len returns the number of recorded rows.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}
