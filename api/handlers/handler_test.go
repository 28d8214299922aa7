package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/metro-go/internal/index"
	"github.com/jusunglee/metro-go/internal/models"
	"github.com/jusunglee/metro-go/internal/store"
)

// MockClient implements metro.Client for testing
type MockClient struct {
	store *store.Store
}

func newMockClient() *MockClient {
	s := store.NewStore()
	s.Register(index.Build(models.Moscow, []models.Metro{
		{
			Line: models.RawLine{ID: "1", Name: "Red", Hex: "#FF0000"},
			Stations: []models.RawStation{
				{Name: "Central", LatLon: models.LatLon{55.0, 37.0}},
				{Name: "North", LatLon: models.LatLon{55.1, 37.0}},
			},
		},
	}))
	return &MockClient{store: s}
}

func (m *MockClient) GetCities() ([]models.City, error) {
	return m.store.GetCities(), nil
}

func (m *MockClient) GetLines(city models.City) ([]models.Line, error) {
	return m.store.GetLines(city)
}

func (m *MockClient) GetLine(city models.City, name string) (models.Line, error) {
	return m.store.GetLine(city, name)
}

func (m *MockClient) GetStations(city models.City) ([]models.StationExtended, error) {
	return m.store.GetStations(city)
}

func (m *MockClient) GetStation(city models.City, name string) (models.StationExtended, error) {
	return m.store.GetStation(city, name)
}

func (m *MockClient) GetStationsByLocation(city models.City, lat, lon float64, limit int) ([]models.StationExtended, error) {
	if lat > 90 {
		return nil, fmt.Errorf("backend failure")
	}
	return m.store.GetStationsByLocation(city, lat, lon, limit)
}

func (m *MockClient) GetLastUpdate() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func newTestRouter() *mux.Router {
	r := mux.NewRouter()
	NewHandler(newMockClient()).RegisterRoutes(r)
	return r
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestLinesEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(), "/cities/moscow/lines")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Data    []models.Line `json:"data"`
		Updated string        `json:"updated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "2024-05-01T12:00:00Z", body.Updated)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Red", body.Data[0].Name)
	assert.Equal(t, "#FF0000", body.Data[0].Hex)
	assert.Len(t, body.Data[0].Stations, 2)
}

func TestStationsEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(), "/cities/moscow/stations")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `{
		"data": [
			{"name": "Central", "latlon": [55, 37], "hex": "#FF0000", "line": "Red"},
			{"name": "North", "latlon": [55.1, 37], "hex": "#FF0000", "line": "Red"}
		],
		"updated": "2024-05-01T12:00:00Z"
	}`, rec.Body.String())
}

func TestEndpointStatuses(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		target string
		status int
	}{
		{name: "index", target: "/", status: http.StatusOK},
		{name: "cities", target: "/cities", status: http.StatusOK},
		{name: "line", target: "/cities/moscow/lines/Red", status: http.StatusOK},
		{name: "unknown line", target: "/cities/moscow/lines/Blue", status: http.StatusNotFound},
		{name: "unknown city lines", target: "/cities/kazan/lines", status: http.StatusNotFound},
		{name: "unknown city stations", target: "/cities/kazan/stations", status: http.StatusNotFound},
		{name: "station", target: "/cities/moscow/stations/North", status: http.StatusOK},
		{name: "station with upper-case city", target: "/cities/MOSCOW/stations/Central", status: http.StatusOK},
		{name: "unknown station", target: "/cities/moscow/stations/South", status: http.StatusNotFound},
		{name: "unknown city station", target: "/cities/kazan/stations/North", status: http.StatusNotFound},
		{name: "nearest", target: "/cities/moscow/stations/nearest?lat=55&lon=37", status: http.StatusOK},
		{name: "nearest missing lon", target: "/cities/moscow/stations/nearest?lat=55", status: http.StatusBadRequest},
		{name: "nearest bad lat", target: "/cities/moscow/stations/nearest?lat=x&lon=37", status: http.StatusBadRequest},
		{name: "nearest bad limit", target: "/cities/moscow/stations/nearest?lat=55&lon=37&limit=0", status: http.StatusBadRequest},
		{name: "nearest unknown city", target: "/cities/kazan/stations/nearest?lat=55&lon=37", status: http.StatusNotFound},
		{name: "nearest backend error", target: "/cities/moscow/stations/nearest?lat=91&lon=37", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, r, tt.target)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			if tt.status != http.StatusOK {
				var errBody ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
				assert.NotEmpty(t, errBody.Error)
			}
		})
	}
}

func TestStationEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(), "/cities/moscow/stations/North")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `{
		"data": {"name": "North", "latlon": [55.1, 37], "hex": "#FF0000", "line": "Red"},
		"updated": "2024-05-01T12:00:00Z"
	}`, rec.Body.String())
}

func TestNearestLimit(t *testing.T) {
	rec := get(t, newTestRouter(), "/cities/moscow/stations/nearest?lat=55.1&lon=37&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []models.StationExtended `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "North", body.Data[0].Name)
}
