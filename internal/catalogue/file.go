package catalogue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"basket-service/internal/models"
)

// FileSource loads the catalogue from a JSON file in catalogue.json format
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed catalogue source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// LoadCatalogue reads and parses the catalogue file. The file is re-read on
// every call so edits are picked up on the next cache refresh.
func (f *FileSource) LoadCatalogue(ctx context.Context) (*models.Catalogue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file: %w", err)
	}

	return Parse(data)
}

// Parse decodes catalogue JSON
func Parse(data []byte) (*models.Catalogue, error) {
	var cat models.Catalogue
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}
	if cat.Products == nil {
		cat.Products = []models.Product{}
	}
	if cat.Offers == nil {
		cat.Offers = []models.OfferRecord{}
	}
	return &cat, nil
}
