// ABOUTME: Data migration between activity storage backends
// ABOUTME: Copies activities and archived originals from source to destination

package storage

import (
	"errors"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Activities int
	Originals  int
}

// MigrateData copies all data from src to dst storage. Documents are saved
// whole, so running it twice leaves dst with the same contents.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	activities, err := src.ListActivities()
	if err != nil {
		return nil, fmt.Errorf("list source activities: %w", err)
	}

	for _, a := range activities {
		if err := dst.SaveActivity(a); err != nil {
			return nil, fmt.Errorf("save activity %q: %w", a.Name, err)
		}
		summary.Activities++

		orig, err := src.GetOriginal(a.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get original for %q: %w", a.Name, err)
		}
		if err := dst.SaveOriginal(orig); err != nil {
			return nil, fmt.Errorf("save original for %q: %w", a.Name, err)
		}
		summary.Originals++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
