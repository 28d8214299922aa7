package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jusunglee/metro-go/internal/models"
)

// DecodeJSON reads records from a JSON array
func DecodeJSON(r io.Reader) ([]models.Metro, error) {
	var records []models.Metro
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode json dataset: %w", err)
	}
	return records, nil
}

// DecodeYAML reads records from a YAML sequence.
// An empty document yields no records.
func DecodeYAML(r io.Reader) ([]models.Metro, error) {
	var records []models.Metro
	if err := yaml.NewDecoder(r).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml dataset: %w", err)
	}
	return records, nil
}

// EncodeYAML writes records in the layout DecodeYAML reads
func EncodeYAML(w io.Writer, records []models.Metro) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode yaml dataset: %w", err)
	}
	return enc.Close()
}
