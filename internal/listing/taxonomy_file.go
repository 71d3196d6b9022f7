package listing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type taxonomyFile struct {
	Cuisines []Cuisine `yaml:"cuisines"`
}

// LoadTaxonomyFile reads a cuisine taxonomy from a YAML file.
func LoadTaxonomyFile(path string) (*Taxonomy, error) {
	if path == "" {
		return nil, fmt.Errorf("no taxonomy file configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var file taxonomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file: %w", err)
	}
	if len(file.Cuisines) == 0 {
		return nil, fmt.Errorf("taxonomy file %s contains no cuisines", path)
	}

	return NewTaxonomy(file.Cuisines), nil
}
