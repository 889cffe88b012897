package ports

import (
	"context"

	"github.com/aretw0/spotcheck/pkg/domain"
)

// Catalog provides the ordered test steps.
type Catalog interface {
	// ListSteps returns a self-consistent snapshot ordered by position.
	// An empty slice is not an error.
	ListSteps(ctx context.Context) ([]domain.Step, error)
}

// NewStep describes a step to be appended to a catalog.
type NewStep struct {
	Instruction string
	ImageRef    string
	Hotspot     domain.Hotspot
}

// CatalogAdmin is implemented by catalogs that support administration.
type CatalogAdmin interface {
	Catalog

	// AddStep appends a step after the current last position.
	AddStep(ctx context.Context, step NewStep) (domain.Step, error)

	// DeleteStep removes a step and closes the gap in positions.
	// Returns domain.ErrStepNotFound for unknown ids.
	DeleteStep(ctx context.Context, id string) error

	// Reorder assigns positions 1..n following ids. ids must name every step exactly once.
	Reorder(ctx context.Context, ids []string) error
}
