// Package metadata derives capture time and location for a photo before it is
// added to an album. It runs on the client against the local file.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoLocation is returned by a LocationSource that has nothing to offer.
var ErrNoLocation = errors.New("no location available")

// LocationSource is one step of the location fallback chain.
type LocationSource interface {
	Location(ctx context.Context) (string, error)
}

// Info is the metadata sent with an album image.
type Info struct {
	TakenAt  time.Time
	Location string
}

// Extractor reads EXIF data and falls back to its location sources, in order,
// when the photo carries no GPS position.
type Extractor struct {
	sources []LocationSource
	now     func() time.Time
}

func NewExtractor(sources ...LocationSource) *Extractor {
	return &Extractor{
		sources: sources,
		now:     time.Now,
	}
}

// Extract never fails on missing metadata. Capture time defaults to now and an
// exhausted location chain yields an empty location.
func (e *Extractor) Extract(ctx context.Context, r io.Reader) (Info, error) {
	info := Info{TakenAt: e.now()}

	x, err := exif.Decode(r)
	if err != nil {
		slog.Debug("no exif data", "error", err)
	}

	if x != nil {
		if taken, err := x.DateTime(); err == nil {
			info.TakenAt = taken
		}
		if lat, lon, err := x.LatLong(); err == nil {
			info.Location = FormatCoordinates(lat, lon)
			return info, nil
		}
	}

	location, err := e.fallbackLocation(ctx)
	if err != nil {
		return info, err
	}
	info.Location = location
	return info, nil
}

func (e *Extractor) fallbackLocation(ctx context.Context) (string, error) {
	for _, source := range e.sources {
		location, err := source.Location(ctx)
		switch {
		case err == nil && location != "":
			return location, nil
		case ctx.Err() != nil:
			return "", ctx.Err()
		case err != nil && !errors.Is(err, ErrNoLocation):
			slog.Debug("location source failed", "source", fmt.Sprintf("%T", source), "error", err)
		}
	}
	return "", nil
}

// FormatCoordinates renders a position as "lat,lon" with six decimals.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}
