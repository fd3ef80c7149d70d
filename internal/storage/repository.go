// ABOUTME: Repository interfaces for activity storage
// ABOUTME: Enables testability and storage backend swapping

package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/harper/trackedit/internal/models"
)

// Original is an uploaded file kept verbatim alongside its parsed activity.
type Original struct {
	ActivityID uuid.UUID `json:"activity_id"`
	Format     string    `json:"format"`
	Filename   string    `json:"filename,omitempty"`
	Data       []byte    `json:"data"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActivityRepository defines operations on whole activity documents.
type ActivityRepository interface {
	GetActivity(id uuid.UUID) (*models.Activity, error)
	// SaveActivity replaces any stored document with the same ID.
	SaveActivity(a *models.Activity) error
	ListActivities() ([]*models.Activity, error)
	DeleteActivity(id uuid.UUID) error
}

// OriginalRepository archives uploaded source files.
type OriginalRepository interface {
	SaveOriginal(o *Original) error
	GetOriginal(activityID uuid.UUID) (*Original, error)
}

// Repository combines all repository operations with lifecycle management.
type Repository interface {
	ActivityRepository
	OriginalRepository
	Close() error
	Sync() error
	Reset() error
}

// Compile-time interface implementation check for the charm backend lives
// in the charm package: var _ storage.Repository = (*charm.Client)(nil)
