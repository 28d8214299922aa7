package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jusunglee/metro-go/internal/models"
	"github.com/jusunglee/metro-go/internal/store"
	"github.com/jusunglee/metro-go/pkg/metro"
)

const defaultNearestLimit = 5

// Handler handles HTTP requests
type Handler struct {
	client metro.Client
}

// NewHandler creates a new HTTP handler
func NewHandler(client metro.Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/cities", h.handleCities).Methods("GET")
	r.HandleFunc("/cities/{city}/lines", h.handleLines).Methods("GET")
	r.HandleFunc("/cities/{city}/lines/{line}", h.handleLine).Methods("GET")
	r.HandleFunc("/cities/{city}/stations", h.handleStations).Methods("GET")
	r.HandleFunc("/cities/{city}/stations/nearest", h.handleNearest).Methods("GET")
	// after /nearest so that path keeps matching the nearest-station query
	r.HandleFunc("/cities/{city}/stations/{station}", h.handleStation).Methods("GET")
}

// Response wraps API responses
type Response struct {
	Data    interface{} `json:"data"`
	Updated string      `json:"updated,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"title":  "metro-go",
		"readme": "Visit https://github.com/jusunglee/metro-go for more info",
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.client.GetCities()
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeData(w, cities)
}

func (h *Handler) handleLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.client.GetLines(cityVar(r))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	h.writeData(w, lines)
}

func (h *Handler) handleLine(w http.ResponseWriter, r *http.Request) {
	line, err := h.client.GetLine(cityVar(r), mux.Vars(r)["line"])
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	h.writeData(w, line)
}

func (h *Handler) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.client.GetStations(cityVar(r))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	h.writeData(w, stations)
}

func (h *Handler) handleStation(w http.ResponseWriter, r *http.Request) {
	station, err := h.client.GetStation(cityVar(r), mux.Vars(r)["station"])
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	h.writeData(w, station)
}

func (h *Handler) handleNearest(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")

	if latStr == "" || lonStr == "" {
		h.writeError(w, "Missing lat/lon parameter", http.StatusBadRequest)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		h.writeError(w, "Invalid lat parameter", http.StatusBadRequest)
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		h.writeError(w, "Invalid lon parameter", http.StatusBadRequest)
		return
	}

	limit := defaultNearestLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			h.writeError(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
	}

	stations, err := h.client.GetStationsByLocation(cityVar(r), lat, lon, limit)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	h.writeData(w, stations)
}

func cityVar(r *http.Request) models.City {
	return models.City(mux.Vars(r)["city"])
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}) {
	response := Response{Data: data}
	if updated := h.client.GetLastUpdate(); !updated.IsZero() {
		response.Updated = updated.Format(time.RFC3339)
	}
	h.writeJSON(w, response)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrUnknownCity) ||
		errors.Is(err, store.ErrLineNotFound) ||
		errors.Is(err, store.ErrStationNotFound) {
		h.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	h.writeError(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
