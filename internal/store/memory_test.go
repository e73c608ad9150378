package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patient-triage-server/internal/models"
)

var _ PatientStore = (*MemoryStore)(nil)

func seed(t *testing.T, s *MemoryStore, id string) {
	t.Helper()
	require.NoError(t, s.Create(context.Background(), &models.PatientProfile{UserID: id, Name: "Patient " + id}))
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.AppendChartEntry(context.Background(), "nobody", models.ChartEntry{ChartText: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CreateDuplicate(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "kim")
	err := s.Create(context.Background(), &models.PatientProfile{UserID: "kim"})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "kim")

	p, err := s.Get(context.Background(), "kim")
	require.NoError(t, err)
	p.Name = "changed"
	p.Charts = append(p.Charts, models.ChartEntry{ID: "ghost"})

	again, err := s.Get(context.Background(), "kim")
	require.NoError(t, err)
	require.Equal(t, "Patient kim", again.Name)
	require.Empty(t, again.Charts)
}

func TestMemoryStore_PutKeepsChartHistory(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "kim")
	ctx := context.Background()

	_, err := s.AppendChartEntry(ctx, "kim", models.ChartEntry{ChartText: "first"})
	require.NoError(t, err)

	stale := &models.PatientProfile{UserID: "kim", Name: "Kim Updated", PhoneNumber: "010"}
	require.NoError(t, s.Put(ctx, "kim", stale))

	p, err := s.Get(ctx, "kim")
	require.NoError(t, err)
	require.Equal(t, "Kim Updated", p.Name)
	require.Len(t, p.Charts, 1)
	require.Equal(t, "first", p.Charts[0].ChartText)
}

func TestMemoryStore_SequentialAppendsAreTimeOrdered(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	seed(t, s, "kim")
	ctx := context.Background()

	a, err := s.AppendChartEntry(ctx, "kim", models.ChartEntry{ChartText: "a"})
	require.NoError(t, err)
	b, err := s.AppendChartEntry(ctx, "kim", models.ChartEntry{ChartText: "b"})
	require.NoError(t, err)

	require.NotEqual(t, a.ID, b.ID)
	require.True(t, b.CreatedAt.After(a.CreatedAt))

	p, err := s.Get(ctx, "kim")
	require.NoError(t, err)
	require.Len(t, p.Charts, 2)
	require.Equal(t, "a", p.Charts[0].ChartText)
	require.Equal(t, "b", p.Charts[1].ChartText)
}

func TestMemoryStore_ConcurrentAppendsLoseNothing(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "kim")
	ctx := context.Background()

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.AppendChartEntry(ctx, "kim", models.ChartEntry{ChartText: fmt.Sprintf("chart-%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	p, err := s.Get(ctx, "kim")
	require.NoError(t, err)
	require.Len(t, p.Charts, writers)
	for i := 1; i < len(p.Charts); i++ {
		require.True(t, p.Charts[i].CreatedAt.After(p.Charts[i-1].CreatedAt))
	}
}

func TestMemoryStore_ListSorted(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "park")
	seed(t, s, "kim")
	all, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "kim", all[0].UserID)
	require.Equal(t, "park", all[1].UserID)
}
