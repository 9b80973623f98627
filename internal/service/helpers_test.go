package service

import (
	"context"
	"testing"
	"time"

	"cycle-kart/internal/catalog"
	"cycle-kart/internal/model"
	"cycle-kart/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSessionRepository is a mock implementation of SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (model.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, id string, fn func(s *model.Session) error) error {
	args := m.Called(ctx, id, fn)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) Sweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.DefaultProducts())
	require.NoError(t, err)
	return cat
}

func testSessions() repository.SessionRepository {
	return repository.NewMemorySessionRepository(time.Hour, zerolog.Nop())
}
