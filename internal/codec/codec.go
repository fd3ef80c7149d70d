// ABOUTME: Format detection and dispatch for activity files
// ABOUTME: Chooses GPX or TCX by file extension or document root element

package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/harper/trackedit/internal/codec/gpx"
	"github.com/harper/trackedit/internal/codec/tcx"
	"github.com/harper/trackedit/internal/models"
)

// ErrUnknownFormat is returned when a document is neither GPX nor TCX.
var ErrUnknownFormat = errors.New("unknown activity format")

// Detect returns the format of a document. The file extension wins when it
// is recognised; otherwise the root element decides.
func Detect(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gpx":
		return models.FormatGPX, nil
	case ".tcx":
		return models.FormatTCX, nil
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", ErrUnknownFormat
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnknownFormat, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "gpx":
			return models.FormatGPX, nil
		case "TrainingCenterDatabase":
			return models.FormatTCX, nil
		}
		return "", ErrUnknownFormat
	}
}

// Parse decodes data in the given format.
func Parse(format string, data []byte) (*models.Activity, error) {
	switch format {
	case models.FormatGPX:
		return gpx.Parse(data)
	case models.FormatTCX:
		return tcx.Parse(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Encode serialises the activity in the given format.
func Encode(format string, a *models.Activity) ([]byte, error) {
	switch format {
	case models.FormatGPX:
		return gpx.Encode(a)
	case models.FormatTCX:
		return tcx.Encode(a)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
