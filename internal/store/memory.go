package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"patient-triage-server/internal/models"
)

// MemoryStore is a process-lifetime PatientStore. Nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*models.PatientProfile // userID -> profile
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: map[string]*models.PatientProfile{},
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*models.PatientProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Create(_ context.Context, profile *models.PatientProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[profile.UserID]; ok {
		return ErrAlreadyExists
	}
	cp := profile.Clone()
	now := s.now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	if cp.Charts == nil {
		cp.Charts = []models.ChartEntry{}
	}
	s.profiles[cp.UserID] = cp
	return nil
}

func (s *MemoryStore) Put(_ context.Context, userID string, profile *models.PatientProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := profile.Clone()
	cp.UserID = userID
	cp.UpdatedAt = s.now()
	if existing, ok := s.profiles[userID]; ok {
		cp.Charts = existing.Charts
		cp.CreatedAt = existing.CreatedAt
	} else {
		cp.CreatedAt = cp.UpdatedAt
		if cp.Charts == nil {
			cp.Charts = []models.ChartEntry{}
		}
	}
	s.profiles[userID] = cp
	return nil
}

func (s *MemoryStore) AppendChartEntry(_ context.Context, userID string, entry models.ChartEntry) (models.ChartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return models.ChartEntry{}, ErrNotFound
	}

	entry = entry.Clone()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	// History must stay strictly time-ordered even on coarse clocks.
	ts := s.now()
	if n := len(p.Charts); n > 0 && !ts.After(p.Charts[n-1].CreatedAt) {
		ts = p.Charts[n-1].CreatedAt.Add(time.Microsecond)
	}
	entry.CreatedAt = ts

	p.Charts = append(p.Charts, entry)
	p.UpdatedAt = ts
	return entry.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]*models.PatientProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.PatientProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		all = append(all, p.Clone())
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].UserID < all[j].UserID
	})
	return all, nil
}
