// Package index builds per-city lookup structures over raw metro records.
//
// An Index is built once from an ordered slice of models.Metro records and is
// read-only afterwards, so it may be shared between goroutines without locking.
//
//	idx := index.Build(models.Moscow, records)
//	for _, line := range idx.Lines() {
//	    fmt.Println(line.Name, len(line.Stations))
//	}
//
// References that do not resolve (a line naming an unknown station, or a station
// naming an unknown line) are never an error. They are left out of query results.
package index

import (
	"log/slog"

	"github.com/jusunglee/metro-go/internal/models"
)

// Index holds the line and station mappings for one city
type Index struct {
	city     models.City
	lines    *orderedMap[*models.StoredLine]    // line name -> line
	stations *orderedMap[*models.StoredStation] // station name -> station
	logger   *slog.Logger
}

// Option configures Build
type Option func(*Index)

// WithLogger reports dangling references at debug level when queries run
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) {
		idx.logger = logger
	}
}

// Build indexes records for city.
// Duplicate line or station names are not rejected: the later record wins and
// keeps the position of the first occurrence.
func Build(city models.City, records []models.Metro, opts ...Option) *Index {
	idx := &Index{
		city:     city,
		lines:    newOrderedMap[*models.StoredLine](len(records)),
		stations: newOrderedMap[*models.StoredStation](len(records) * 8),
	}
	for _, opt := range opts {
		opt(idx)
	}

	for _, metro := range records {
		line := &models.StoredLine{
			Name:     metro.Line.Name,
			Hex:      metro.Line.Hex,
			Stations: make([]string, 0, len(metro.Stations)),
		}

		for _, station := range metro.Stations {
			idx.stations.set(station.Name, &models.StoredStation{
				Name:   station.Name,
				LatLon: station.LatLon,
				Line:   metro.Line.Name,
			})
			line.Stations = append(line.Stations, station.Name)
		}

		idx.lines.set(line.Name, line)
	}

	return idx
}

// FromStored rebuilds an index from already flattened lines and stations,
// such as a decoded snapshot. References are not checked.
func FromStored(city models.City, lines []models.StoredLine, stations []models.StoredStation, opts ...Option) *Index {
	idx := &Index{
		city:     city,
		lines:    newOrderedMap[*models.StoredLine](len(lines)),
		stations: newOrderedMap[*models.StoredStation](len(stations)),
	}
	for _, opt := range opts {
		opt(idx)
	}

	for i := range lines {
		line := lines[i]
		line.Stations = append([]string(nil), line.Stations...)
		idx.lines.set(line.Name, &line)
	}
	for i := range stations {
		station := stations[i]
		idx.stations.set(station.Name, &station)
	}

	return idx
}

// Stored returns copies of the flattened mappings in insertion order
func (idx *Index) Stored() ([]models.StoredLine, []models.StoredStation) {
	lines := make([]models.StoredLine, 0, idx.lines.len())
	idx.lines.each(func(line *models.StoredLine) {
		l := *line
		l.Stations = append([]string(nil), line.Stations...)
		lines = append(lines, l)
	})

	stations := make([]models.StoredStation, 0, idx.stations.len())
	idx.stations.each(func(station *models.StoredStation) {
		stations = append(stations, *station)
	})

	return lines, stations
}

// City returns the city the index was built for
func (idx *Index) City() models.City { return idx.city }

// LineCount returns the number of distinct line names
func (idx *Index) LineCount() int { return idx.lines.len() }

// StationCount returns the number of distinct station names
func (idx *Index) StationCount() int { return idx.stations.len() }

// Lines returns every line in dataset order with its stations resolved.
// Station references that do not resolve are skipped.
func (idx *Index) Lines() []models.Line {
	result := make([]models.Line, 0, idx.lines.len())
	idx.lines.each(func(line *models.StoredLine) {
		result = append(result, idx.resolveLine(line))
	})
	return result
}

// Stations returns every station joined with its line.
// Stations whose line does not resolve are skipped.
func (idx *Index) Stations() []models.StationExtended {
	result := make([]models.StationExtended, 0, idx.stations.len())
	idx.stations.each(func(station *models.StoredStation) {
		if ext, ok := idx.extend(station); ok {
			result = append(result, ext)
		}
	})
	return result
}

// Line returns a single line by name
func (idx *Index) Line(name string) (models.Line, bool) {
	line, ok := idx.lines.get(name)
	if !ok {
		return models.Line{}, false
	}
	return idx.resolveLine(line), true
}

// Station returns a single station by name, joined with its line
func (idx *Index) Station(name string) (models.StationExtended, bool) {
	station, ok := idx.stations.get(name)
	if !ok {
		return models.StationExtended{}, false
	}
	return idx.extend(station)
}

func (idx *Index) resolveLine(line *models.StoredLine) models.Line {
	stations := make([]models.Station, 0, len(line.Stations))
	for _, name := range line.Stations {
		s, ok := idx.stations.get(name)
		if !ok {
			idx.dangling("station", name, "line", line.Name)
			continue
		}
		stations = append(stations, models.Station{Name: s.Name, LatLon: s.LatLon})
	}
	return models.Line{
		Name:     line.Name,
		Hex:      line.Hex,
		Stations: stations,
	}
}

func (idx *Index) extend(station *models.StoredStation) (models.StationExtended, bool) {
	line, ok := idx.lines.get(station.Line)
	if !ok {
		idx.dangling("line", station.Line, "station", station.Name)
		return models.StationExtended{}, false
	}
	return models.StationExtended{
		Name:   station.Name,
		LatLon: station.LatLon,
		Hex:    line.Hex,
		Line:   line.Name,
	}, true
}

func (idx *Index) dangling(kind, name, ownerKind, owner string) {
	if idx.logger == nil {
		return
	}
	idx.logger.Debug("dangling reference dropped",
		slog.String("city", string(idx.city)),
		slog.String("missing_"+kind, name),
		slog.String(ownerKind, owner))
}
