package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/jusunglee/metro-go/internal/config"
	"github.com/jusunglee/metro-go/internal/dataset"
	"github.com/jusunglee/metro-go/internal/logging"
	"github.com/jusunglee/metro-go/internal/models"
)

func TestSourcesFromConfig(t *testing.T) {
	sources := sourcesFromConfig([]config.CityConfig{
		{ID: "Moscow", Format: "embedded"},
		{ID: " KAZAN ", Format: "yaml", Path: "data/kazan.yml"},
	})

	assert.Equal(t, []dataset.Source{
		{City: models.Moscow, Format: dataset.FormatEmbedded},
		{City: "kazan", Format: dataset.FormatYAML, Path: "data/kazan.yml"},
	}, sources)
}

func TestClientConfig(t *testing.T) {
	logger := logging.NewStructuredLogger(io.Discard, slog.LevelInfo)

	t.Run("built-in cities without config", func(t *testing.T) {
		mc := clientConfig(config.Default(), logger)
		assert.Equal(t, dataset.DefaultSources(), mc.Sources)
		assert.Same(t, logger, mc.Logger)
	})

	t.Run("configured cities replace the defaults", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cities = []config.CityConfig{{ID: "SPB", Format: "embedded"}}

		mc := clientConfig(cfg, logger)
		assert.Equal(t, []dataset.Source{{City: models.SPB, Format: dataset.FormatEmbedded}}, mc.Sources)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

	r := mux.NewRouter()
	r.HandleFunc("/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Use(loggingMiddleware(logger))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	output := buf.String()
	assert.Contains(t, output, `"msg":"http request"`)
	assert.Contains(t, output, `"level":"WARN"`)
	assert.Contains(t, output, `"path":"/teapot"`)
	assert.Contains(t, output, `"status":418`)
}
