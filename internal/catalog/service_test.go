package catalog

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fenstra/offers-backend/pkg/db/models"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/logger"
)

type memoryRepo struct {
	rows []models.CatalogOption
}

func (m *memoryRepo) ListAll(_ context.Context) ([]models.CatalogOption, error) {
	out := make([]models.CatalogOption, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *memoryRepo) ListByCategory(_ context.Context, category string) ([]models.CatalogOption, error) {
	var out []models.CatalogOption
	for _, row := range m.rows {
		if row.Category == category {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListCategories(_ context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, row := range m.rows {
		if _, ok := seen[row.Category]; !ok {
			seen[row.Category] = struct{}{}
			out = append(out, row.Category)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*models.CatalogOption, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryRepo) Create(_ context.Context, option *models.CatalogOption) error {
	m.rows = append(m.rows, *option)
	return nil
}

func (m *memoryRepo) Update(_ context.Context, option *models.CatalogOption) error {
	for i := range m.rows {
		if m.rows[i].ID == option.ID {
			m.rows[i] = *option
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryRepo) ReplaceAll(_ context.Context, options []models.CatalogOption) error {
	m.rows = append([]models.CatalogOption(nil), options...)
	return nil
}

func (m *memoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	logg := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(repo, logg)
	require.NoError(t, err)
	return svc
}

func TestImportCSVReplacesCatalog(t *testing.T) {
	repo := &memoryRepo{rows: []models.CatalogOption{{ID: "OLD", Category: "X", Name: "old"}}}
	svc := newTestService(t, repo)

	input := strings.Join([]string{
		"ID_OPCJI,KATEGORIA,NAZWA,CENA_NETTO_EUR",
		"T_OKNO,Typ elementu,Okno PVC,100.00",
		"KOL_ANT,Kolor,Antracyt,\"25,50\"",
	}, "\n")

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 0, report.Skipped)

	require.Len(t, repo.rows, 2)
	assert.Equal(t, "T_OKNO", repo.rows[0].ID)
	assert.True(t, repo.rows[1].UnitNetPrice.Equal(decimal.RequireFromString("25.50")))
}

func TestImportCSVSkipsBrokenRows(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(t, repo)

	input := strings.Join([]string{
		"ID_OPCJI,KATEGORIA,NAZWA,CENA_NETTO_EUR",
		"T_OKNO,Typ elementu,Okno PVC,100.00",
		"BROKEN,Kolor,Antracyt,not-a-price",
		",Kolor,Bez ID,10.00",
	}, "\n")

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 2, report.Skipped)
	require.Len(t, repo.rows, 1)
}

func TestImportCSVRejectsWrongHeader(t *testing.T) {
	svc := newTestService(t, &memoryRepo{})

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("foo,bar,baz,qux\nA,B,C,1"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestImportCSVRejectsEmptyBody(t *testing.T) {
	repo := &memoryRepo{rows: []models.CatalogOption{{ID: "KEEP"}}}
	svc := newTestService(t, repo)

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("ID_OPCJI,KATEGORIA,NAZWA,CENA_NETTO_EUR\n"))
	require.Error(t, err)
	// A failed import must not wipe the existing catalog.
	assert.Len(t, repo.rows, 1)
}

func TestSeedFromFileSkipsPopulatedCatalog(t *testing.T) {
	repo := &memoryRepo{rows: []models.CatalogOption{{ID: "KEEP"}}}
	svc := newTestService(t, repo)

	err := svc.SeedFromFile(context.Background(), "does/not/exist.csv")
	require.NoError(t, err)
	assert.Len(t, repo.rows, 1)
}

func TestOptionCRUD(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	created, err := svc.CreateOption(ctx, CreateOptionInput{
		ID:           " KOL_ANT ",
		Category:     "Kolor",
		Name:         "Antracyt",
		UnitNetPrice: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	assert.Equal(t, "KOL_ANT", created.ID)

	updated, err := svc.UpdateOption(ctx, "KOL_ANT", UpdateOptionInput{
		Category:     "Kolor",
		Name:         "Antracyt mat",
		UnitNetPrice: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	assert.Equal(t, "Antracyt mat", updated.Name)

	got, err := svc.GetOption(ctx, "KOL_ANT")
	require.NoError(t, err)
	assert.True(t, got.UnitNetPrice.Equal(decimal.NewFromInt(30)))

	require.NoError(t, svc.DeleteOption(ctx, "KOL_ANT"))

	_, err = svc.GetOption(ctx, "KOL_ANT")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateOptionRejectsNegativePrice(t *testing.T) {
	svc := newTestService(t, &memoryRepo{})

	_, err := svc.CreateOption(context.Background(), CreateOptionInput{
		ID:           "BAD",
		Category:     "Kolor",
		Name:         "Ujemna",
		UnitNetPrice: decimal.NewFromInt(-1),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
