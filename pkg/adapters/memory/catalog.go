package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/aretw0/spotcheck/pkg/ports"
)

// Catalog implements ports.CatalogAdmin using an in-memory slice.
type Catalog struct {
	mu     sync.RWMutex
	steps  []domain.Step
	nextID int
}

// NewCatalog creates a catalog from steps in presentation order.
// Steps without an ID get a generated one; Order is always rewritten to 1..n.
func NewCatalog(steps ...domain.Step) *Catalog {
	c := &Catalog{nextID: 1}
	for _, s := range steps {
		if s.ID == "" {
			s.ID = strconv.Itoa(c.nextID)
			c.nextID++
		}
		c.steps = append(c.steps, s)
	}
	c.renumber()
	return c
}

func (c *Catalog) renumber() {
	for i := range c.steps {
		c.steps[i].Order = i + 1
	}
}

// ListSteps returns a copy of the steps ordered by position.
func (c *Catalog) ListSteps(ctx context.Context) ([]domain.Step, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Step, len(c.steps))
	copy(out, c.steps)
	return out, nil
}

// AddStep appends a step at the end of the sequence.
func (c *Catalog) AddStep(ctx context.Context, in ports.NewStep) (domain.Step, error) {
	if err := domain.ValidateImageRef(in.ImageRef); err != nil {
		return domain.Step{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	step := domain.Step{
		ID:          c.allocateID(),
		Order:       len(c.steps) + 1,
		Instruction: in.Instruction,
		ImageRef:    in.ImageRef,
		Hotspot:     in.Hotspot,
	}
	c.steps = append(c.steps, step)
	return step, nil
}

func (c *Catalog) allocateID() string {
	for {
		id := strconv.Itoa(c.nextID)
		c.nextID++
		if c.indexOf(id) < 0 {
			return id
		}
	}
}

func (c *Catalog) indexOf(id string) int {
	for i, s := range c.steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// DeleteStep removes a step; later steps move up one position.
func (c *Catalog) DeleteStep(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrStepNotFound, id)
	}
	c.steps = append(c.steps[:i], c.steps[i+1:]...)
	c.renumber()
	return nil
}

// Reorder rearranges the steps to follow ids.
func (c *Catalog) Reorder(ctx context.Context, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(ids) != len(c.steps) {
		return fmt.Errorf("reorder: got %d ids for %d steps", len(ids), len(c.steps))
	}
	reordered := make([]domain.Step, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		i := c.indexOf(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrStepNotFound, id)
		}
		if seen[id] {
			return fmt.Errorf("reorder: duplicate id %s", id)
		}
		seen[id] = true
		reordered = append(reordered, c.steps[i])
	}
	c.steps = reordered
	c.renumber()
	return nil
}
