package store

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/jusunglee/metro-go/internal/index"
	"github.com/jusunglee/metro-go/internal/models"
)

var (
	// ErrUnknownCity is returned for a city that has no registered index
	ErrUnknownCity = errors.New("unknown city")
	// ErrLineNotFound is returned when a city has no line with the given name
	ErrLineNotFound = errors.New("line not found")
	// ErrStationNotFound is returned when a city has no station with the given name
	// or the station's line does not resolve
	ErrStationNotFound = errors.New("station not found")
)

// Store keeps one index per city
type Store struct {
	mu         sync.RWMutex
	cities     map[models.City]*index.Index
	lastUpdate time.Time
}

// NewStore creates a new store instance
func NewStore() *Store {
	return &Store{
		cities: make(map[models.City]*index.Index),
	}
}

// Register makes idx queryable under its city.
// A second index for the same city replaces the first.
func (s *Store) Register(idx *index.Index) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cities[models.NormalizeCity(idx.City())] = idx
	s.lastUpdate = time.Now()
}

// Index returns the index registered for city
func (s *Store) Index(city models.City) (*index.Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.cities[models.NormalizeCity(city)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCity, city)
	}
	return idx, nil
}

// GetCities returns all registered cities, sorted
func (s *Store) GetCities() []models.City {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.City, 0, len(s.cities))
	for city := range s.cities {
		result = append(result, city)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})
	return result
}

// GetLines returns all lines of a city in dataset order
func (s *Store) GetLines(city models.City) ([]models.Line, error) {
	idx, err := s.Index(city)
	if err != nil {
		return nil, err
	}
	return idx.Lines(), nil
}

// GetStations returns all stations of a city joined with their lines
func (s *Store) GetStations(city models.City) ([]models.StationExtended, error) {
	idx, err := s.Index(city)
	if err != nil {
		return nil, err
	}
	return idx.Stations(), nil
}

// GetLine returns one line of a city by name
func (s *Store) GetLine(city models.City, name string) (models.Line, error) {
	idx, err := s.Index(city)
	if err != nil {
		return models.Line{}, err
	}

	line, ok := idx.Line(name)
	if !ok {
		return models.Line{}, fmt.Errorf("%w: %s in %s", ErrLineNotFound, name, city)
	}
	return line, nil
}

// GetStation returns one station of a city by name, joined with its line
func (s *Store) GetStation(city models.City, name string) (models.StationExtended, error) {
	idx, err := s.Index(city)
	if err != nil {
		return models.StationExtended{}, err
	}

	station, ok := idx.Station(name)
	if !ok {
		return models.StationExtended{}, fmt.Errorf("%w: %s in %s", ErrStationNotFound, name, city)
	}
	return station, nil
}

// GetStationsByLocation returns up to limit stations of a city nearest to a location
func (s *Store) GetStationsByLocation(city models.City, lat, lon float64, limit int) ([]models.StationExtended, error) {
	idx, err := s.Index(city)
	if err != nil {
		return nil, err
	}

	type stationDist struct {
		station  models.StationExtended
		distance float64
	}

	all := idx.Stations()
	stations := make([]stationDist, 0, len(all))
	for _, station := range all {
		dist := distance(lat, lon, station.LatLon.Lat(), station.LatLon.Lon())
		stations = append(stations, stationDist{station, dist})
	}

	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].distance < stations[j].distance
	})

	if limit < 0 {
		limit = 0
	}
	result := make([]models.StationExtended, 0, min(limit, len(stations)))
	for i := 0; i < limit && i < len(stations); i++ {
		result = append(result, stations[i].station)
	}

	return result, nil
}

// GetLastUpdate returns the time of the last registration
func (s *Store) GetLastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// distance calculates the distance between two points using the Haversine formula
func distance(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // Earth's radius in kilometers

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}
