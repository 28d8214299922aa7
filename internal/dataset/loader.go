package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/metro-go/internal/index"
	"github.com/jusunglee/metro-go/internal/logging"
	"github.com/jusunglee/metro-go/internal/models"
)

// LoadAll loads every source concurrently and returns the indexes in source order.
// Each index is built by a single goroutine and only shared once LoadAll returns.
// The first failure cancels the remaining loads. City ids are normalized first,
// and two sources naming the same city fail with ErrDuplicateCity.
func LoadAll(ctx context.Context, sources []Source, logger *slog.Logger) ([]*index.Index, error) {
	normalized := make([]Source, len(sources))
	seen := make(map[models.City]bool, len(sources))
	for i, src := range sources {
		src.City = models.NormalizeCity(src.City)
		if seen[src.City] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCity, src.City)
		}
		seen[src.City] = true
		normalized[i] = src
	}

	g, ctx := errgroup.WithContext(ctx)
	indexes := make([]*index.Index, len(sources))

	for i, src := range normalized {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			idx, err := Load(src, index.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("load %s (%s): %w", src.City, src.Format, err)
			}
			indexes[i] = idx

			logging.LogOperation(logger, "city indexed",
				slog.String("city", string(src.City)),
				slog.String("format", string(src.Format)),
				slog.Int("lines", idx.LineCount()),
				slog.Int("stations", idx.StationCount()),
				slog.Duration("duration", time.Since(start)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return indexes, nil
}
