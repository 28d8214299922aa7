package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/jusunglee/metro-go/api/handlers"
	"github.com/jusunglee/metro-go/internal/config"
	"github.com/jusunglee/metro-go/internal/dataset"
	"github.com/jusunglee/metro-go/internal/logging"
	"github.com/jusunglee/metro-go/internal/models"
	"github.com/jusunglee/metro-go/pkg/metro"
)

func main() {
	var (
		configFile = flag.String("config", "", "YAML config file (optional)")
		port       = flag.Int("port", 0, "Server port, overrides config")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		slog.Error("Invalid log level", "error", err)
		os.Exit(1)
	}
	logger := logging.NewStructuredLogger(os.Stdout, level)
	slog.SetDefault(logger)

	client, err := metro.NewLocal(context.Background(), clientConfig(cfg, logger))
	if err != nil {
		logging.LogError(logger, "Failed to create metro client", err)
		os.Exit(1)
	}

	r := mux.NewRouter()
	h := handlers.NewHandler(client)
	h.RegisterRoutes(r)

	r.Use(loggingMiddleware(logger))

	// CORS wraps the router so preflight requests never reach route matching
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      corsHandler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(logger, "Server failed to start", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.LogError(logger, "Server forced to shutdown", err)
		os.Exit(1)
	}

	logger.Info("Server stopped")
}

// clientConfig starts from the built-in cities and replaces them only when
// the config lists its own
func clientConfig(cfg config.AppConfig, logger *slog.Logger) metro.Config {
	mc := metro.DefaultConfig()
	if len(cfg.Cities) > 0 {
		mc.Sources = sourcesFromConfig(cfg.Cities)
	}
	mc.Logger = logger
	return mc
}

func sourcesFromConfig(cities []config.CityConfig) []dataset.Source {
	sources := make([]dataset.Source, 0, len(cities))
	for _, c := range cities {
		sources = append(sources, dataset.Source{
			City:   models.NormalizeCity(models.City(c.ID)),
			Format: dataset.Format(c.Format),
			Path:   c.Path,
		})
	}
	return sources
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logging.LogHTTPRequest(logger, r.Method, r.RequestURI, rec.status, time.Since(start),
				slog.String("remote", r.RemoteAddr))
		})
	}
}
