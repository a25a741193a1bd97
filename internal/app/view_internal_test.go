package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/tarot-spreads/internal/domain"
)

func TestView_SkipsCardsWithoutMeaning(t *testing.T) {
	deck := domain.Deck{ID: "d", Cards: []domain.CardMeaning{
		{ID: 0, Name: "Zero"},
		{ID: 1, Name: "One"},
	}}
	catalog, err := domain.NewCatalog(domain.BuiltinSpreads())
	require.NoError(t, err)

	var logs bytes.Buffer
	s, err := NewSession(deck, catalog, domain.NewSeededRNG(1), Options{
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, err)

	require.NoError(t, s.Place(0, "Desafio"))
	require.NoError(t, s.Place(1, "Desafio"))
	require.NoError(t, s.SelectCard(1))
	delete(s.meanings, 1)

	var v View
	assert.NotPanics(t, func() { v = s.View() })
	require.Len(t, v.Positions[1].Cards, 1)
	assert.Equal(t, "Zero", v.Positions[1].Cards[0].Name)
	assert.Nil(t, v.Detail)
	assert.True(t, strings.Contains(logs.String(), "card meaning missing"))
}
