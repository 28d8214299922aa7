// Package dataset turns metro datasets into indexes.
//
// A dataset is an ordered list of models.Metro records (a line plus its stations).
// Records can come from the datasets compiled into the binary, from JSON or YAML
// files in the same layout, or from a GTFS static zip. Snapshots are different:
// they carry an already flattened index and are decoded straight into one.
//
// The built-in moscow and spb datasets are partial: a handful of central lines
// with a subset of their stations, enough to exercise the index and the API.
// Load a full network from a file source when complete data matters.
//
// City ids are normalized with models.NormalizeCity before anything is looked
// up or indexed, so "SPB" and "spb" name the same city.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/jusunglee/metro-go/internal/index"
	"github.com/jusunglee/metro-go/internal/models"
)

// Format names a dataset encoding
type Format string

const (
	FormatEmbedded Format = "embedded"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatGTFS     Format = "gtfs"
	FormatSnapshot Format = "snapshot"
)

var (
	// ErrUnsupportedFormat is returned for a Format this package cannot read
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrDuplicateCity is returned when two sources name the same city
	ErrDuplicateCity = errors.New("duplicate city")
)

// Source locates one city's dataset
type Source struct {
	City   models.City
	Format Format
	Path   string // ignored for FormatEmbedded
}

// DefaultSources returns the embedded datasets for the built-in cities
func DefaultSources() []Source {
	return []Source{
		{City: models.Moscow, Format: FormatEmbedded},
		{City: models.SPB, Format: FormatEmbedded},
	}
}

// ReadRecords reads the raw records of a record-based source
func ReadRecords(src Source) ([]models.Metro, error) {
	if src.Format == FormatEmbedded {
		return Embedded(src.City)
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	switch src.Format {
	case FormatJSON:
		return DecodeJSON(bytes.NewReader(data))
	case FormatYAML:
		return DecodeYAML(bytes.NewReader(data))
	case FormatGTFS:
		return ParseGTFS(data)
	default:
		return nil, fmt.Errorf("%w: %q has no raw records", ErrUnsupportedFormat, src.Format)
	}
}

// Load reads src and builds its index under the normalized city id
func Load(src Source, opts ...index.Option) (*index.Index, error) {
	src.City = models.NormalizeCity(src.City)

	switch src.Format {
	case FormatSnapshot:
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		return DecodeSnapshot(data, src.City, opts...)
	case FormatEmbedded, FormatJSON, FormatYAML, FormatGTFS:
		records, err := ReadRecords(src)
		if err != nil {
			return nil, err
		}
		return index.Build(src.City, records, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, src.Format)
	}
}
