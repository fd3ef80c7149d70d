// ABOUTME: Activity and original CRUD operations using Charm KV
// ABOUTME: Stores each activity as one JSON document under a prefixed key

package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/charm/kv"
	"github.com/google/uuid"
	"github.com/harper/trackedit/internal/models"
	"github.com/harper/trackedit/internal/storage"
)

// Compile-time check that Client implements storage.Repository.
var _ storage.Repository = (*Client)(nil)

func activityKey(id uuid.UUID) []byte {
	return []byte(ActivityPrefix + id.String())
}

func originalKey(id uuid.UUID) []byte {
	return []byte(OriginalPrefix + id.String())
}

// SaveActivity stores the activity, replacing any previous document.
func (c *Client) SaveActivity(a *models.Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	return c.do(func(k *kv.KV) error {
		return k.Set(activityKey(a.ID), data)
	})
}

// GetActivity retrieves an activity by its UUID.
func (c *Client) GetActivity(id uuid.UUID) (*models.Activity, error) {
	data, err := c.get(activityKey(id))
	if err != nil {
		if errors.Is(err, kv.ErrMissingKey) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}

	var a models.Activity
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrInvalidDocument, err)
	}
	return &a, nil
}

// ListActivities returns all activities, most recent first.
func (c *Client) ListActivities() ([]*models.Activity, error) {
	activities := []*models.Activity{}
	prefix := []byte(ActivityPrefix)

	err := kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		keys, err := k.Keys()
		if err != nil {
			return fmt.Errorf("list keys: %w", err)
		}

		for _, key := range keys {
			if !bytes.HasPrefix(key, prefix) {
				continue
			}
			data, err := k.Get(key)
			if err != nil {
				return fmt.Errorf("get activity %s: %w", key, err)
			}
			var a models.Activity
			if err := json.Unmarshal(data, &a); err != nil {
				return fmt.Errorf("%w: %w", storage.ErrInvalidDocument, err)
			}
			activities = append(activities, &a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(activities, func(i, j int) bool {
		if activities[i].Date.Equal(activities[j].Date) {
			return activities[i].Name < activities[j].Name
		}
		return activities[i].Date.After(activities[j].Date)
	})
	return activities, nil
}

// DeleteActivity removes an activity and its archived original.
func (c *Client) DeleteActivity(id uuid.UUID) error {
	return c.do(func(k *kv.KV) error {
		if _, err := k.Get(activityKey(id)); err != nil {
			if errors.Is(err, kv.ErrMissingKey) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("get activity: %w", err)
		}
		if err := k.Delete(activityKey(id)); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		if err := k.Delete(originalKey(id)); err != nil && !errors.Is(err, kv.ErrMissingKey) {
			return fmt.Errorf("delete original: %w", err)
		}
		return nil
	})
}

// SaveOriginal archives an uploaded file.
func (c *Client) SaveOriginal(o *storage.Original) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal original: %w", err)
	}
	return c.do(func(k *kv.KV) error {
		return k.Set(originalKey(o.ActivityID), data)
	})
}

// GetOriginal retrieves the archived upload for an activity.
func (c *Client) GetOriginal(activityID uuid.UUID) (*storage.Original, error) {
	data, err := c.get(originalKey(activityID))
	if err != nil {
		if errors.Is(err, kv.ErrMissingKey) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get original: %w", err)
	}

	var o storage.Original
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("unmarshal original: %w", err)
	}
	return &o, nil
}
