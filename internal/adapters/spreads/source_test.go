package spreads_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomtoy/tarot-spreads/internal/adapters/spreads"
	"github.com/randomtoy/tarot-spreads/internal/domain"
	"github.com/randomtoy/tarot-spreads/internal/ports"
)

var _ ports.SpreadSource = (*spreads.Source)(nil)

type staticSource struct {
	defs []domain.SpreadDefinition
	err  error
}

func (s staticSource) Spreads(context.Context) ([]domain.SpreadDefinition, error) {
	return s.defs, s.err
}

func TestEmbeddedCatalog_MatchesBuiltins(t *testing.T) {
	got, err := spreads.NewEmbeddedSource().Spreads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BuiltinSpreads(), got)
}

func TestLoadCatalog_Embedded(t *testing.T) {
	c, err := spreads.LoadCatalog(context.Background(), spreads.NewEmbeddedSource())
	require.NoError(t, err)
	assert.Equal(t, []string{"Energia do Dia", "Desafio", "Conselho"}, c.PositionsFor(domain.SpreadDaily))
}

func TestLoadCatalog_FileWithDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spreads.yaml")
	body := `spreads:
  - id: a
    label: A
    positions: [x, x]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	src, err := spreads.NewFileSource(path)
	require.NoError(t, err)
	_, err = spreads.LoadCatalog(context.Background(), src)
	assert.ErrorIs(t, err, domain.ErrDuplicatePosition)
}

func TestLoadCatalog_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spreads.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spreads: [: nope"), 0o600))

	src, err := spreads.NewFileSource(path)
	require.NoError(t, err)
	_, err = spreads.LoadCatalog(context.Background(), src)
	assert.Error(t, err)
}

func TestNewFileSource_Missing(t *testing.T) {
	_, err := spreads.NewFileSource(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadCatalog_AnySource(t *testing.T) {
	c, err := spreads.LoadCatalog(context.Background(), staticSource{defs: []domain.SpreadDefinition{
		{ID: "duo", Label: "Duo", Positions: []string{"Eu", "Outro"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Eu", "Outro"}, c.PositionsFor("duo"))

	boom := errors.New("unavailable")
	_, err = spreads.LoadCatalog(context.Background(), staticSource{err: boom})
	assert.ErrorIs(t, err, boom)
}
