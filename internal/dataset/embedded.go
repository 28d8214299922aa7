package dataset

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/jusunglee/metro-go/internal/models"
)

//go:embed data/*.json
var embedded embed.FS

// Embedded returns the compiled-in records for a built-in city.
// The datasets are partial networks; see the package doc.
func Embedded(city models.City) ([]models.Metro, error) {
	data, err := embedded.ReadFile("data/" + string(models.NormalizeCity(city)) + ".json")
	if err != nil {
		return nil, fmt.Errorf("no embedded dataset for %q: %w", city, err)
	}
	return DecodeJSON(bytes.NewReader(data))
}
