package file

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/spotcheck/pkg/domain"
	"gopkg.in/yaml.v3"
)

// catalogFile is the structure of steps.yaml.
type catalogFile struct {
	Steps []domain.Step `yaml:"steps"`
}

// Catalog implements ports.Catalog from a YAML file.
// The file is read on every call, so edits show up on the next interaction.
type Catalog struct {
	Path string
}

// NewCatalog creates a catalog backed by the YAML file at path.
func NewCatalog(path string) *Catalog {
	return &Catalog{Path: path}
}

// ListSteps parses the file. A missing file is an empty catalog.
// Steps are presented in file order and must carry unique ids.
func (c *Catalog) ListSteps(ctx context.Context) ([]domain.Step, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Step{}, nil
		}
		return nil, fmt.Errorf("failed to read steps file: %w", err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", c.Path, err)
	}

	seen := make(map[string]bool, len(cf.Steps))
	for i := range cf.Steps {
		step := &cf.Steps[i]
		if step.ID == "" {
			return nil, fmt.Errorf("%s: step %d has no id", c.Path, i+1)
		}
		if step.ID == domain.QuestionnaireStepID {
			return nil, fmt.Errorf("%s: step id %q is reserved", c.Path, step.ID)
		}
		if seen[step.ID] {
			return nil, fmt.Errorf("%s: duplicate step id %q", c.Path, step.ID)
		}
		seen[step.ID] = true
		step.Order = i + 1
	}
	return cf.Steps, nil
}
