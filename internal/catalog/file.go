package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chrisdamba/besteats/internal/models"
)

// fileItem mirrors models.CatalogItem with a loosely typed price so that both
// 12.5 and "$12.50" are accepted.
type fileItem struct {
	ID          int64       `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Price       interface{} `json:"price" yaml:"price"`
	Category    string      `json:"category" yaml:"category"`
	Popular     bool        `json:"popular" yaml:"popular"`
	New         bool        `json:"new" yaml:"new"`
	Image       string      `json:"image" yaml:"image"`
}

// LoadFile reads a JSON or YAML menu, chosen by file extension.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var raw []fileItem
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", path)
	}

	items := make([]models.CatalogItem, 0, len(raw))
	for _, r := range raw {
		price, err := models.PriceFromValue(r.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog item %d (%s): %w", r.ID, r.Name, err)
		}
		items = append(items, models.CatalogItem{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Price:       price,
			Category:    r.Category,
			Popular:     r.Popular,
			New:         r.New,
			Image:       r.Image,
		})
	}
	return New(items)
}
