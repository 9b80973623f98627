package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cycle-kart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestMemoryRepo(ttl time.Duration) (*memorySessionRepository, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	return newMemorySessionRepository(ttl, clock.Now, zerolog.Nop()), clock
}

func addLine(productID, quantity int) func(s *model.Session) error {
	return func(s *model.Session) error {
		if line := s.Cart.Line(productID); line != nil {
			line.Quantity += quantity
			return nil
		}
		s.Cart.Lines = append(s.Cart.Lines, model.CartLine{ProductID: productID, Quantity: quantity})
		return nil
	}
}

func TestMemorySessionRepository_GetUnknown(t *testing.T) {
	repo, _ := newTestMemoryRepo(time.Hour)

	s, err := repo.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.True(t, s.Cart.IsEmpty())
	assert.Empty(t, s.Flashes)
}

func TestMemorySessionRepository_UpdateAndGet(t *testing.T) {
	repo, clock := newTestMemoryRepo(time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, "s1", addLine(3, 2)))
	require.NoError(t, repo.Update(ctx, "s1", addLine(3, 1)))
	require.NoError(t, repo.Update(ctx, "s1", addLine(1, 4)))

	s, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: 3, Quantity: 3}, {ProductID: 1, Quantity: 4}}, s.Cart.Lines)
	assert.Equal(t, clock.Now(), s.UpdatedAt)

	other, err := repo.Get(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, other.Cart.IsEmpty())
}

func TestMemorySessionRepository_FailedUpdateStoresNothing(t *testing.T) {
	repo, _ := newTestMemoryRepo(time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Update(ctx, "s1", addLine(3, 2)))

	boom := errors.New("boom")
	err := repo.Update(ctx, "s1", func(s *model.Session) error {
		s.Cart.Lines[0].Quantity = 99
		s.Cart.Clear()
		return boom
	})

	assert.ErrorIs(t, err, boom)
	s, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: 3, Quantity: 2}}, s.Cart.Lines)
}

func TestMemorySessionRepository_GetReturnsCopy(t *testing.T) {
	repo, _ := newTestMemoryRepo(time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Update(ctx, "s1", addLine(3, 2)))

	s, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	s.Cart.Lines[0].Quantity = 50

	again, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Cart.Lines[0].Quantity)
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	repo, clock := newTestMemoryRepo(time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Update(ctx, "s1", addLine(3, 2)))

	clock.Advance(2 * time.Hour)

	s, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, s.Cart.IsEmpty(), "expired session should read as empty")

	// An update on an expired session starts from an empty cart
	require.NoError(t, repo.Update(ctx, "s1", addLine(1, 1)))
	s, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: 1, Quantity: 1}}, s.Cart.Lines)
}

func TestMemorySessionRepository_Sweep(t *testing.T) {
	repo, clock := newTestMemoryRepo(time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, "old", addLine(1, 1)))
	clock.Advance(90 * time.Minute)
	require.NoError(t, repo.Update(ctx, "fresh", addLine(2, 1)))

	removed, err := repo.Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Len(t, repo.entries, 1)
	_, ok := repo.entries["fresh"]
	assert.True(t, ok)
}

func TestMemorySessionRepository_Delete(t *testing.T) {
	repo, _ := newTestMemoryRepo(time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Update(ctx, "s1", addLine(1, 1)))

	require.NoError(t, repo.Delete(ctx, "s1"))
	require.NoError(t, repo.Delete(ctx, "never-existed"))

	s, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, s.Cart.IsEmpty())
}

func TestMemorySessionRepository_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	repo := NewMemorySessionRepository(time.Hour, zerolog.Nop())
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Update(ctx, "shared", addLine(3, 1)))
		}()
	}
	wg.Wait()

	s, err := repo.Get(ctx, "shared")
	require.NoError(t, err)
	require.Len(t, s.Cart.Lines, 1)
	assert.Equal(t, workers, s.Cart.Lines[0].Quantity)
}

func TestMemorySessionRepository_CancelledContext(t *testing.T) {
	repo, _ := newTestMemoryRepo(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Update(ctx, "s1", addLine(1, 1))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, context.Canceled)
}
