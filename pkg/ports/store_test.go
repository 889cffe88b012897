package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/aretw0/spotcheck/pkg/ports"
)

// MockStore is an in-memory implementation of StateStore for testing purposes.
type MockStore struct {
	data map[string]domain.State
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]domain.State),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	m.data[sessionID] = *state
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	state, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &state, nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestStateStore_Contract(t *testing.T) {
	// The contract suite is exercised against the simplest possible store so that
	// a broken suite shows up here before it shows up in an adapter.
	ports.RunStateStoreContract(t, NewMockStore())
}
