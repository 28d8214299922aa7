package metro

import (
	"context"
	"time"

	"github.com/jusunglee/metro-go/internal/dataset"
	"github.com/jusunglee/metro-go/internal/models"
	"github.com/jusunglee/metro-go/internal/store"
)

// LocalClient implements the Client interface over in-memory indexes
// All datasets are loaded in NewLocal; nothing changes afterwards
type LocalClient struct {
	store *store.Store
}

// NewLocal loads every configured source and returns a ready client
func NewLocal(ctx context.Context, config Config) (*LocalClient, error) {
	sources := config.Sources
	if len(sources) == 0 {
		sources = dataset.DefaultSources()
	}

	indexes, err := dataset.LoadAll(ctx, sources, config.Logger)
	if err != nil {
		return nil, err
	}

	s := store.NewStore()
	for _, idx := range indexes {
		s.Register(idx)
	}

	return &LocalClient{store: s}, nil
}

func (c *LocalClient) GetCities() ([]models.City, error) {
	return c.store.GetCities(), nil
}

func (c *LocalClient) GetLines(city models.City) ([]models.Line, error) {
	return c.store.GetLines(city)
}

func (c *LocalClient) GetLine(city models.City, name string) (models.Line, error) {
	return c.store.GetLine(city, name)
}

func (c *LocalClient) GetStations(city models.City) ([]models.StationExtended, error) {
	return c.store.GetStations(city)
}

func (c *LocalClient) GetStation(city models.City, name string) (models.StationExtended, error) {
	return c.store.GetStation(city, name)
}

func (c *LocalClient) GetStationsByLocation(city models.City, lat, lon float64, limit int) ([]models.StationExtended, error) {
	return c.store.GetStationsByLocation(city, lat, lon, limit)
}

func (c *LocalClient) GetLastUpdate() time.Time {
	return c.store.GetLastUpdate()
}

// LinesMoscow returns the lines of the built-in Moscow dataset
func (c *LocalClient) LinesMoscow() ([]models.Line, error) {
	return c.GetLines(models.Moscow)
}

// LinesSpb returns the lines of the built-in Saint Petersburg dataset
func (c *LocalClient) LinesSpb() ([]models.Line, error) {
	return c.GetLines(models.SPB)
}

// StationsMoscow returns the stations of the built-in Moscow dataset
func (c *LocalClient) StationsMoscow() ([]models.StationExtended, error) {
	return c.GetStations(models.Moscow)
}

// StationsSpb returns the stations of the built-in Saint Petersburg dataset
func (c *LocalClient) StationsSpb() ([]models.StationExtended, error) {
	return c.GetStations(models.SPB)
}
