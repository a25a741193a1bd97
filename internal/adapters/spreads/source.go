// Package spreads loads the spread catalog from YAML.
package spreads

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/randomtoy/tarot-spreads/internal/domain"
	"github.com/randomtoy/tarot-spreads/internal/ports"
)

//go:embed data/spreads.yaml
var embedded []byte

type file struct {
	Spreads []domain.SpreadDefinition `yaml:"spreads"`
}

// Source reads spread definitions from YAML, either the embedded catalog or
// a file on disk.
type Source struct {
	raw []byte
}

// NewEmbeddedSource serves the catalog compiled into the binary.
func NewEmbeddedSource() *Source {
	return &Source{raw: embedded}
}

// NewFileSource reads the catalog from path.
func NewFileSource(path string) (*Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spreads file: %w", err)
	}
	return &Source{raw: raw}, nil
}

func (s *Source) Spreads(_ context.Context) ([]domain.SpreadDefinition, error) {
	var f file
	if err := yaml.Unmarshal(s.raw, &f); err != nil {
		return nil, fmt.Errorf("parse spreads: %w", err)
	}
	return f.Spreads, nil
}

// LoadCatalog reads and validates a catalog from src.
func LoadCatalog(ctx context.Context, src ports.SpreadSource) (*domain.Catalog, error) {
	defs, err := src.Spreads(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(defs)
}
