package metro

import (
	"log/slog"
	"time"

	"github.com/jusunglee/metro-go/internal/dataset"
	"github.com/jusunglee/metro-go/internal/models"
)

// Client defines the interface for querying metro data
// Lookups for a city that was never loaded fail with store.ErrUnknownCity
type Client interface {
	GetCities() ([]models.City, error)

	GetLines(city models.City) ([]models.Line, error)
	GetLine(city models.City, name string) (models.Line, error)

	GetStations(city models.City) ([]models.StationExtended, error)
	GetStation(city models.City, name string) (models.StationExtended, error)
	GetStationsByLocation(city models.City, lat, lon float64, limit int) ([]models.StationExtended, error)

	GetLastUpdate() time.Time
}

// Config holds configuration for the metro client
// Sources lists the datasets to index; empty means the built-in cities
type Config struct {
	Sources []dataset.Source
	Logger  *slog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Sources: dataset.DefaultSources(),
	}
}
