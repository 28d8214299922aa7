package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jusunglee/metro-go/internal/dataset"
	"github.com/jusunglee/metro-go/internal/index"
	"github.com/jusunglee/metro-go/internal/models"
	"github.com/jusunglee/metro-go/pkg/metro"
)

func main() {
	var (
		city         = flag.String("city", string(models.Moscow), "City to query")
		mode         = flag.String("mode", "lines", "What to print: lines, stations or station")
		station      = flag.String("station", "", "Station name for -mode station")
		format       = flag.String("format", "", "Dataset format when -file is set (json, yaml, gtfs, snapshot)")
		file         = flag.String("file", "", "Dataset file; the embedded dataset is used when empty")
		export       = flag.String("export", "", "Write the city's dataset to this path")
		exportFormat = flag.String("export-format", "snapshot", "Export encoding: snapshot or yaml")
		debug        = flag.Bool("debug", false, "Log dropped references")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	src := dataset.Source{City: models.NormalizeCity(models.City(*city)), Format: dataset.FormatEmbedded}
	if *file != "" {
		src.Format = dataset.Format(*format)
		src.Path = *file
	}

	if *export != "" {
		summary, err := writeExport(src, *export, *exportFormat, logger)
		if err != nil {
			logger.Error("Failed to export dataset", "city", *city, "path", *export, "error", err)
			os.Exit(1)
		}
		fmt.Println(summary)
		return
	}

	client, err := metro.NewLocal(context.Background(), metro.Config{
		Sources: []dataset.Source{src},
		Logger:  logger,
	})
	if err != nil {
		logger.Error("Failed to create metro client", "error", err)
		os.Exit(1)
	}

	switch *mode {
	case "lines":
		lines, err := client.GetLines(src.City)
		if err != nil {
			logger.Error("Failed to get lines", "city", *city, "error", err)
			os.Exit(1)
		}
		printLines(os.Stdout, lines)
	case "stations":
		stations, err := client.GetStations(src.City)
		if err != nil {
			logger.Error("Failed to get stations", "city", *city, "error", err)
			os.Exit(1)
		}
		for _, s := range stations {
			printStation(os.Stdout, s)
		}
	case "station":
		s, err := client.GetStation(src.City, *station)
		if err != nil {
			logger.Error("Failed to get station", "city", *city, "station", *station, "error", err)
			os.Exit(1)
		}
		printStation(os.Stdout, s)
	default:
		logger.Error("Unknown mode", "mode", *mode)
		os.Exit(2)
	}
}

// writeExport writes src to path as a snapshot of its index or as YAML records
func writeExport(src dataset.Source, path, format string, logger *slog.Logger) (string, error) {
	switch format {
	case "snapshot":
		idx, err := dataset.Load(src, index.WithLogger(logger))
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, dataset.EncodeSnapshot(idx), 0o644); err != nil {
			return "", fmt.Errorf("write snapshot: %w", err)
		}
		return fmt.Sprintf("Wrote %s: %d lines, %d stations", path, idx.LineCount(), idx.StationCount()), nil
	case "yaml":
		records, err := dataset.ReadRecords(src)
		if err != nil {
			return "", err
		}
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("create export: %w", err)
		}
		defer f.Close()
		if err := dataset.EncodeYAML(f, records); err != nil {
			return "", err
		}
		return fmt.Sprintf("Wrote %s: %d lines", path, len(records)), f.Close()
	default:
		return "", fmt.Errorf("%w: export as %q", dataset.ErrUnsupportedFormat, format)
	}
}

func printLines(w io.Writer, lines []models.Line) {
	for _, line := range lines {
		fmt.Fprintf(w, "\n%s (%s), %d stations\n", line.Name, line.Hex, line.StationCount())
		for _, s := range line.Stations {
			fmt.Fprintf(w, "  - %s (%.4f, %.4f)\n", s.Name, s.LatLon.Lat(), s.LatLon.Lon())
		}
	}
}

func printStation(w io.Writer, s models.StationExtended) {
	fmt.Fprintf(w, "%s (%.4f, %.4f) %s %s\n", s.Name, s.LatLon.Lat(), s.LatLon.Lon(), s.Line, s.Hex)
}
