// ABOUTME: Activity editing service tying storage, codecs, and the engine
// ABOUTME: Loads a document, applies one edit, and saves the result whole

// Package edit is the boundary the CLI and MCP server call into. Every
// editing method loads the stored activity, runs a copy-on-write engine
// operation, stamps UpdatedAt, and saves the full document back.
package edit

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harper/trackedit/internal/activities"
	"github.com/harper/trackedit/internal/codec"
	"github.com/harper/trackedit/internal/elevation"
	"github.com/harper/trackedit/internal/geojson"
	"github.com/harper/trackedit/internal/laps"
	"github.com/harper/trackedit/internal/models"
	"github.com/harper/trackedit/internal/storage"
)

// FormatGeoJSON is the extra export format handled outside the codecs.
const FormatGeoJSON = "geojson"

// ErrAmbiguousID is returned when an ID prefix matches more than one activity.
var ErrAmbiguousID = errors.New("ambiguous activity id")

// Service applies edits to stored activities.
type Service struct {
	repo   storage.Repository
	lookup elevation.Lookup
	logger *log.Logger
	now    func() time.Time
}

// NewService creates a service. lookup may be nil to disable altitude
// backfill; a nil logger uses the default logger.
func NewService(repo storage.Repository, lookup elevation.Lookup, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		repo:   repo,
		lookup: lookup,
		logger: logger.WithPrefix("edit"),
		now:    time.Now,
	}
}

// Import parses an uploaded file, archives it, derives missing distances,
// speeds, altitudes and lap statistics, and stores the activity.
func (s *Service) Import(ctx context.Context, filename string, data []byte) (*models.Activity, error) {
	format, err := codec.Detect(filename, data)
	if err != nil {
		return nil, err
	}
	parsed, err := codec.Parse(format, data)
	if err != nil {
		return nil, err
	}
	if parsed.Name == "" {
		parsed.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	a := activities.FillDistanceSpeed(parsed)
	for i := range a.Laps {
		lap := &a.Laps[i]
		if err := laps.BackfillAltitude(ctx, lap, s.lookup); err != nil {
			s.logger.Warn("altitude backfill failed", "lap", lap.Index, "err", err)
		}
		laps.Aggregate(lap)
	}

	if err := s.repo.SaveActivity(a); err != nil {
		return nil, fmt.Errorf("save activity: %w", err)
	}
	orig := &storage.Original{
		ActivityID: a.ID,
		Format:     format,
		Filename:   filepath.Base(filename),
		Data:       data,
	}
	if err := s.repo.SaveOriginal(orig); err != nil {
		// an activity is never stored without its original
		if derr := s.repo.DeleteActivity(a.ID); derr != nil {
			s.logger.Warn("rollback of imported activity failed", "id", a.ID, "err", derr)
		}
		return nil, fmt.Errorf("archive original: %w", err)
	}
	s.logger.Info("imported activity", "id", a.ID, "format", format, "laps", len(a.Laps), "points", a.PointCount())
	return a, nil
}

// Get returns a stored activity.
func (s *Service) Get(id uuid.UUID) (*models.Activity, error) {
	return s.repo.GetActivity(id)
}

// List returns all stored activities, most recent first.
func (s *Service) List() ([]*models.Activity, error) {
	return s.repo.ListActivities()
}

// Resolve turns a full UUID or a unique prefix of one into an activity ID.
func (s *Service) Resolve(ref string) (uuid.UUID, error) {
	ref = strings.TrimSpace(strings.ToLower(ref))
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	if ref == "" {
		return uuid.Nil, storage.ErrNotFound
	}

	all, err := s.repo.ListActivities()
	if err != nil {
		return uuid.Nil, err
	}
	var match uuid.UUID
	found := 0
	for _, a := range all {
		if strings.HasPrefix(a.ID.String(), ref) {
			match = a.ID
			found++
		}
	}
	switch found {
	case 0:
		return uuid.Nil, storage.ErrNotFound
	case 1:
		return match, nil
	}
	return uuid.Nil, fmt.Errorf("%w: %q matches %d activities", ErrAmbiguousID, ref, found)
}

// RemovePoint deletes one track point.
func (s *Service) RemovePoint(id uuid.UUID, p PointParams) (*models.Activity, error) {
	c, err := ParseCriteria(p)
	if err != nil {
		return nil, err
	}
	return s.apply(id, "remove point", func(a *models.Activity) (*models.Activity, error) {
		return activities.RemovePoint(a, c)
	})
}

// SplitLap splits the lap holding the given point in two.
func (s *Service) SplitLap(id uuid.UUID, p PointParams) (*models.Activity, error) {
	c, err := ParseCriteria(p)
	if err != nil {
		return nil, err
	}
	return s.apply(id, "split lap", func(a *models.Activity) (*models.Activity, error) {
		return activities.SplitLap(a, c)
	})
}

// JoinLaps merges two laps.
func (s *Service) JoinLaps(id uuid.UUID, i, j *int) (*models.Activity, error) {
	return s.apply(id, "join laps", func(a *models.Activity) (*models.Activity, error) {
		return activities.JoinLaps(a, i, j)
	})
}

// RemoveLaps removes the laps named by parallel start time and index lists.
func (s *Service) RemoveLaps(id uuid.UUID, startTimes []*int64, indices []int) (*models.Activity, error) {
	return s.apply(id, "remove laps", func(a *models.Activity) (*models.Activity, error) {
		return activities.RemoveLaps(a, startTimes, indices)
	})
}

// SetLapColors sets one lap's display colors from a "primary-secondary" pair.
func (s *Service) SetLapColors(id uuid.UUID, lapIndex int, colors string) (*models.Activity, error) {
	return s.apply(id, "set lap colors", func(a *models.Activity) (*models.Activity, error) {
		return activities.SetLapColors(a, lapIndex, colors)
	})
}

// Rename changes an activity's display name.
func (s *Service) Rename(id uuid.UUID, name string) (*models.Activity, error) {
	if err := models.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return s.apply(id, "rename", func(a *models.Activity) (*models.Activity, error) {
		out := a.Clone()
		out.Name = strings.TrimSpace(name)
		return out, nil
	})
}

// Export serialises a stored activity as gpx, tcx, or geojson.
func (s *Service) Export(id uuid.UUID, format string) ([]byte, error) {
	a, err := s.repo.GetActivity(id)
	if err != nil {
		return nil, err
	}
	if format == FormatGeoJSON {
		return geojson.ToJSONIndent(geojson.ToLineFeatureCollection(a))
	}
	return codec.Encode(format, a)
}

// Original returns the file the activity was imported from.
func (s *Service) Original(id uuid.UUID) (*storage.Original, error) {
	return s.repo.GetOriginal(id)
}

// Delete removes an activity and its archived original.
func (s *Service) Delete(id uuid.UUID) error {
	if err := s.repo.DeleteActivity(id); err != nil {
		return err
	}
	s.logger.Info("deleted activity", "id", id)
	return nil
}

func (s *Service) apply(id uuid.UUID, op string, fn func(*models.Activity) (*models.Activity, error)) (*models.Activity, error) {
	a, err := s.repo.GetActivity(id)
	if err != nil {
		return nil, err
	}

	out, err := fn(a)
	if err != nil {
		s.logger.Debug("edit rejected", "op", op, "id", id, "err", err)
		return nil, err
	}
	out.UpdatedAt = s.now()

	if err := s.repo.SaveActivity(out); err != nil {
		return nil, fmt.Errorf("save activity: %w", err)
	}
	s.logger.Debug("edit applied", "op", op, "id", id, "laps", len(out.Laps), "points", out.PointCount())
	return out, nil
}
