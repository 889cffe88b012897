package ports

import (
	"context"

	"github.com/aretw0/spotcheck/pkg/domain"
)

// ResultRecorder appends immutable test results.
// Every call is one durable append; an error means nothing was recorded.
type ResultRecorder interface {
	RecordClick(ctx context.Context, sessionID, stepID string, hit bool, x, y int) error
	RecordQuestionnaire(ctx context.Context, sessionID string, q domain.Questionnaire) error
}

// ResultReader lists recorded results, oldest first.
// An empty sessionID lists every session.
type ResultReader interface {
	ListResults(ctx context.Context, sessionID string) ([]domain.Result, error)
}
