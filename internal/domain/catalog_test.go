package domain_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/randomtoy/tarot-spreads/internal/domain"
)

func builtinCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	c, err := domain.NewCatalog(domain.BuiltinSpreads())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestCatalog_PositionsFor(t *testing.T) {
	c := builtinCatalog(t)

	tests := []struct {
		id   domain.SpreadID
		want []string
	}{
		{domain.SpreadDaily, []string{"Energia do Dia", "Desafio", "Conselho"}},
		{domain.SpreadCross, []string{"Presente", "Desafio", "Passado", "Futuro", "Acima", "Abaixo", "Conselho", "Resultado"}},
		{domain.SpreadCeltic, []string{"Presente", "Desafio", "Passado", "Futuro", "Acima", "Abaixo", "Conselho", "Influências Externas", "Esperanças", "Resultado"}},
		{domain.SpreadRelationship, []string{"Você", "Parceiro(a)", "Relacionamento", "Conselho", "Resultado"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, c.PositionsFor(tt.id)); diff != "" {
			t.Errorf("%s: positions mismatch (-want +got):\n%s", tt.id, diff)
		}
	}
}

func TestCatalog_UnknownFallsBack(t *testing.T) {
	c := builtinCatalog(t)

	got := c.PositionsFor("unknown")
	if len(got) != 3 {
		t.Fatalf("expected 3 placeholder positions, got %v", got)
	}

	d := c.Resolve("unknown")
	if d.Label != "unknown" || len(d.Positions) != 3 {
		t.Errorf("unexpected resolved spread: %+v", d)
	}
	if _, ok := c.Lookup("unknown"); ok {
		t.Error("Lookup should miss for unknown ids")
	}
}

func TestCatalog_ListKeepsOrder(t *testing.T) {
	c := builtinCatalog(t)

	var got []domain.SpreadID
	for _, d := range c.List() {
		got = append(got, d.ID)
	}
	want := []domain.SpreadID{domain.SpreadDaily, domain.SpreadCross, domain.SpreadCeltic, domain.SpreadRelationship}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if c.Default().ID != domain.SpreadDaily {
		t.Errorf("expected daily as default, got %s", c.Default().ID)
	}
}

func TestCatalog_ResultsAreCopies(t *testing.T) {
	c := builtinCatalog(t)
	p := c.PositionsFor(domain.SpreadDaily)
	p[0] = "Changed"

	if c.PositionsFor(domain.SpreadDaily)[0] != "Energia do Dia" {
		t.Error("catalog was mutated through a returned slice")
	}
}

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name string
		defs []domain.SpreadDefinition
		want error
	}{
		{"empty", nil, domain.ErrSpreadNotFound},
		{"duplicate id", []domain.SpreadDefinition{
			{ID: "a", Positions: []string{"x"}},
			{ID: "a", Positions: []string{"y"}},
		}, domain.ErrDuplicateSpread},
		{"no positions", []domain.SpreadDefinition{{ID: "a"}}, domain.ErrEmptySpread},
		{"duplicate position", []domain.SpreadDefinition{
			{ID: "a", Positions: []string{"x", "x"}},
		}, domain.ErrDuplicatePosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := domain.NewCatalog(tt.defs); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
