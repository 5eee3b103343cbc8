package ports_test

import (
	"context"
	"sort"
	"testing"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/ports"
)

// MockStore is a map-backed DocumentStore used to check the contract suite itself.
type MockStore struct {
	data map[string]*domain.Document
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Document),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, doc *domain.Document) error {
	// Copy to simulate serialization
	m.data[sessionID] = doc.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Document, error) {
	doc, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return doc.Clone(), nil
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
	sort.Strings(ids)
	return ids, nil
}

func TestDocumentStore_Contract(t *testing.T) {
	ports.RunDocumentStoreContract(t, NewMockStore())
}
