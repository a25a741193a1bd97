package domain

import (
	"fmt"
	"slices"
)

// placeholderPositions is served for spread ids the catalog does not know.
var placeholderPositions = []string{"Posição 1", "Posição 2", "Posição 3"}

// BuiltinSpreads returns the stock spread layouts in display order.
func BuiltinSpreads() []SpreadDefinition {
	return []SpreadDefinition{
		{
			ID:        SpreadDaily,
			Label:     "Leitura Diária",
			Positions: []string{"Energia do Dia", "Desafio", "Conselho"},
		},
		{
			ID:        SpreadCross,
			Label:     "Cruz Celta",
			Positions: []string{"Presente", "Desafio", "Passado", "Futuro", "Acima", "Abaixo", "Conselho", "Resultado"},
		},
		{
			ID:        SpreadCeltic,
			Label:     "Cruz Celta Completa",
			Positions: []string{"Presente", "Desafio", "Passado", "Futuro", "Acima", "Abaixo", "Conselho", "Influências Externas", "Esperanças", "Resultado"},
		},
		{
			ID:        SpreadRelationship,
			Label:     "Relacionamento",
			Positions: []string{"Você", "Parceiro(a)", "Relacionamento", "Conselho", "Resultado"},
		},
	}
}

// Catalog is a static lookup from spread id to its definition.
type Catalog struct {
	order []SpreadID
	byID  map[SpreadID]SpreadDefinition
}

// NewCatalog validates defs and builds a catalog that keeps their order.
func NewCatalog(defs []SpreadDefinition) (*Catalog, error) {
	c := &Catalog{byID: make(map[SpreadID]SpreadDefinition, len(defs))}
	for _, d := range defs {
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSpread, d.ID)
		}
		if len(d.Positions) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptySpread, d.ID)
		}
		seen := make(map[string]bool, len(d.Positions))
		for _, p := range d.Positions {
			if p == "" || seen[p] {
				return nil, fmt.Errorf("%w: %s/%q", ErrDuplicatePosition, d.ID, p)
			}
			seen[p] = true
		}
		d.Positions = slices.Clone(d.Positions)
		c.byID[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	if len(c.order) == 0 {
		return nil, ErrSpreadNotFound
	}
	return c, nil
}

// PositionsFor returns the ordered positions of the spread, or a generic
// three-slot list when the id is unknown.
func (c *Catalog) PositionsFor(id SpreadID) []string {
	if d, ok := c.byID[id]; ok {
		return slices.Clone(d.Positions)
	}
	return slices.Clone(placeholderPositions)
}

// Lookup returns the definition for id.
func (c *Catalog) Lookup(id SpreadID) (SpreadDefinition, bool) {
	d, ok := c.byID[id]
	if !ok {
		return SpreadDefinition{}, false
	}
	d.Positions = slices.Clone(d.Positions)
	return d, true
}

// Resolve is Lookup with the placeholder fallback applied: unknown ids get
// the id itself as label and the placeholder positions.
func (c *Catalog) Resolve(id SpreadID) SpreadDefinition {
	if d, ok := c.Lookup(id); ok {
		return d
	}
	return SpreadDefinition{ID: id, Label: string(id), Positions: slices.Clone(placeholderPositions)}
}

// List returns every definition in catalog order.
func (c *Catalog) List() []SpreadDefinition {
	out := make([]SpreadDefinition, 0, len(c.order))
	for _, id := range c.order {
		d, _ := c.Lookup(id)
		out = append(out, d)
	}
	return out
}

// Default returns the first spread of the catalog.
func (c *Catalog) Default() SpreadDefinition {
	d, _ := c.Lookup(c.order[0])
	return d
}
