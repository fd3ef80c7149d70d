// ABOUTME: Backup and restore of activity data
// ABOUTME: Uses a versioned YAML document holding every activity and original

package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/trackedit/internal/models"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

// BackupTool identifies backups written by this program.
const BackupTool = "trackedit"

// Backup represents the YAML backup format.
type Backup struct {
	Version    string             `yaml:"version"`
	ExportedAt time.Time          `yaml:"exported_at"`
	Tool       string             `yaml:"tool"`
	Activities []*models.Activity `yaml:"activities"`
	Originals  []OriginalBackup   `yaml:"originals,omitempty"`
}

// OriginalBackup is an archived upload with its bytes base64 encoded.
type OriginalBackup struct {
	ActivityID string    `yaml:"activity_id"`
	Format     string    `yaml:"format"`
	Filename   string    `yaml:"filename,omitempty"`
	Data       string    `yaml:"data"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// RestoreSummary holds counts of restored entities.
type RestoreSummary struct {
	Activities int
	Originals  int
}

// ExportToYAML exports all data to YAML format.
func ExportToYAML(repo Repository) ([]byte, error) {
	activities, err := repo.ListActivities()
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       BackupTool,
		Activities: activities,
	}

	for _, a := range activities {
		orig, err := repo.GetOriginal(a.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get original for %s: %w", a.ID, err)
		}
		backup.Originals = append(backup.Originals, OriginalBackup{
			ActivityID: orig.ActivityID.String(),
			Format:     orig.Format,
			Filename:   orig.Filename,
			Data:       base64.StdEncoding.EncodeToString(orig.Data),
			CreatedAt:  orig.CreatedAt.UTC(),
		})
	}

	return yaml.Marshal(backup)
}

// ImportFromYAML restores data from YAML format. Activities already present
// are replaced by the backed-up document.
func ImportFromYAML(repo Repository, data []byte) (*RestoreSummary, error) {
	var backup Backup
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version: %s (expected %s)", backup.Version, BackupVersion)
	}

	if backup.Tool != BackupTool {
		return nil, fmt.Errorf("wrong tool: %s (expected %s)", backup.Tool, BackupTool)
	}

	summary := &RestoreSummary{}
	for _, a := range backup.Activities {
		if a == nil || a.ID == uuid.Nil {
			return nil, fmt.Errorf("activity without id in backup")
		}
		if err := repo.SaveActivity(a); err != nil {
			return nil, fmt.Errorf("save activity %s: %w", a.Name, err)
		}
		summary.Activities++
	}

	for _, ob := range backup.Originals {
		id, err := uuid.Parse(ob.ActivityID)
		if err != nil {
			return nil, fmt.Errorf("invalid activity ID %s: %w", ob.ActivityID, err)
		}
		raw, err := base64.StdEncoding.DecodeString(ob.Data)
		if err != nil {
			return nil, fmt.Errorf("decode original %s: %w", ob.ActivityID, err)
		}
		orig := &Original{
			ActivityID: id,
			Format:     ob.Format,
			Filename:   ob.Filename,
			Data:       raw,
			CreatedAt:  ob.CreatedAt,
		}
		if err := repo.SaveOriginal(orig); err != nil {
			return nil, fmt.Errorf("save original %s: %w", ob.ActivityID, err)
		}
		summary.Originals++
	}

	return summary, nil
}
