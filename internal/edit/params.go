// ABOUTME: Parsing of loosely typed point parameters from callers
// ABOUTME: Blank values become absent criteria and malformed values are errors

package edit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/harper/trackedit/internal/models"
)

// ErrInvalidParams is returned when a request parameter is malformed.
var ErrInvalidParams = errors.New("invalid parameters")

// PointParams identifies a track point as sent by a client: a position plus
// the point's epoch-millisecond time or its index.
type PointParams struct {
	Latitude   string `json:"lat"`
	Longitude  string `json:"lng"`
	TimeMillis string `json:"time,omitempty"`
	Index      string `json:"index,omitempty"`
}

// ParseCriteria converts params into engine criteria.
func ParseCriteria(p PointParams) (models.Criteria, error) {
	var c models.Criteria
	var err error

	if c.Latitude, err = parseFloat("latitude", p.Latitude); err != nil {
		return models.Criteria{}, err
	}
	if c.Longitude, err = parseFloat("longitude", p.Longitude); err != nil {
		return models.Criteria{}, err
	}
	if s := strings.TrimSpace(p.TimeMillis); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return models.Criteria{}, fmt.Errorf("%w: time %q", ErrInvalidParams, p.TimeMillis)
		}
		c.TimeMillis = &v
	}
	if s := strings.TrimSpace(p.Index); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return models.Criteria{}, fmt.Errorf("%w: index %q", ErrInvalidParams, p.Index)
		}
		c.Index = &v
	}
	return c, nil
}

func parseFloat(name, raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidParams, name, raw)
	}
	return &v, nil
}

// ParseOptionalInt parses a lap index that may be left blank.
func ParseOptionalInt(name, raw string) (*int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidParams, name, raw)
	}
	return &v, nil
}

// ParseStartTimes parses epoch-millisecond lap start times. Blank entries
// stay nil so the paired lap matches on index alone.
func ParseStartTimes(raw []string) ([]*int64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]*int64, len(raw))
	for i, r := range raw {
		s := strings.TrimSpace(r)
		if s == "" {
			continue
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: start time %q", ErrInvalidParams, r)
		}
		out[i] = &v
	}
	return out, nil
}
