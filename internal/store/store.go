package store

import (
	"context"
	"errors"

	"patient-triage-server/internal/models"
)

var (
	// ErrNotFound is returned when no profile exists for the user id
	ErrNotFound = errors.New("patient profile not found")

	// ErrAlreadyExists is returned by Create when the user id is taken
	ErrAlreadyExists = errors.New("patient profile already exists")
)

// PatientStore keeps patient profiles and their chart history.
// Implementations return copies; mutating a returned profile never changes the store.
type PatientStore interface {
	Get(ctx context.Context, userID string) (*models.PatientProfile, error)

	// Create inserts a new profile, failing with ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, profile *models.PatientProfile) error

	// Put upserts the profile fields. Chart history of an existing profile is kept;
	// it only grows through AppendChartEntry.
	Put(ctx context.Context, userID string, profile *models.PatientProfile) error

	// AppendChartEntry atomically appends one entry and returns it as stored.
	AppendChartEntry(ctx context.Context, userID string, entry models.ChartEntry) (models.ChartEntry, error)

	List(ctx context.Context) ([]*models.PatientProfile, error)
}
