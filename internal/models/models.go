package models

import "strings"

// City identifies a metro system
// Ids are case-insensitive; NormalizeCity gives the canonical form
type City string

// NormalizeCity lower-cases and trims a city id
func NormalizeCity(city City) City {
	return City(strings.ToLower(strings.TrimSpace(string(city))))
}

// Built-in cities shipped with the embedded datasets
const (
	Moscow City = "moscow"
	SPB    City = "spb"
)

// LatLon represents a geographic coordinate as [lat, lon]
type LatLon [2]float64

// Lat returns the latitude
func (l LatLon) Lat() float64 { return l[0] }

// Lon returns the longitude
func (l LatLon) Lon() float64 { return l[1] }

// RawLine describes a line as it appears in a source dataset
type RawLine struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Hex  string `json:"hex" yaml:"hex"`
}

// RawStation describes a station as it appears in a source dataset
type RawStation struct {
	Name   string `json:"name" yaml:"name"`
	LatLon LatLon `json:"latlon" yaml:"latlon,flow"`
}

// Metro is one dataset record: a line and its stations in order
type Metro struct {
	Line     RawLine      `json:"line" yaml:"line"`
	Stations []RawStation `json:"stations" yaml:"stations"`
}

// StoredLine is a line as held in an index
// Stations holds station names, resolved against the station mapping at query time
type StoredLine struct {
	Name     string
	Hex      string
	Stations []string
}

// StoredStation is a station as held in an index
type StoredStation struct {
	Name   string
	LatLon LatLon
	Line   string
}

// Station is a station as listed inside a Line
type Station struct {
	Name   string `json:"name"`
	LatLon LatLon `json:"latlon"`
}

// Line is the denormalized view of a line with its resolved stations
type Line struct {
	Name     string    `json:"name"`
	Hex      string    `json:"hex"`
	Stations []Station `json:"stations"`
}

// StationExtended is a station joined with its owning line
type StationExtended struct {
	Name   string `json:"name"`
	LatLon LatLon `json:"latlon"`
	Hex    string `json:"hex"`
	Line   string `json:"line"`
}

// StationCount returns the number of resolved stations on the line
func (l Line) StationCount() int {
	return len(l.Stations)
}
