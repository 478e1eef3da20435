package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/fenstra/offers-backend/pkg/db/models"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/logger"
)

// Expected header of a catalog seed file.
var csvHeader = []string{"ID_OPCJI", "KATEGORIA", "NAZWA", "CENA_NETTO_EUR"}

// CreateOptionInput carries the fields for a new catalog option.
type CreateOptionInput struct {
	ID           string          `json:"id" validate:"required,max=64"`
	Category     string          `json:"category" validate:"required,max=128"`
	Name         string          `json:"name" validate:"required,max=256"`
	UnitNetPrice decimal.Decimal `json:"unit_net_price"`
}

// UpdateOptionInput carries the mutable fields of an existing option.
type UpdateOptionInput struct {
	Category     string          `json:"category" validate:"required,max=128"`
	Name         string          `json:"name" validate:"required,max=256"`
	UnitNetPrice decimal.Decimal `json:"unit_net_price"`
}

// ImportReport summarizes a CSV import.
type ImportReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Service exposes catalog reads for pricing and admin mutations.
type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	ListAll(ctx context.Context) ([]Entry, error)
	ListByCategory(ctx context.Context, category string) ([]Entry, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetOption(ctx context.Context, id string) (Entry, error)
	CreateOption(ctx context.Context, input CreateOptionInput) (Entry, error)
	UpdateOption(ctx context.Context, id string, input UpdateOptionInput) (Entry, error)
	DeleteOption(ctx context.Context, id string) error
	ImportCSV(ctx context.Context, r io.Reader) (ImportReport, error)
	SeedFromFile(ctx context.Context, path string) error
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires a catalog service over the given repository.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog service requires a repository")
	}
	if logg == nil {
		return nil, fmt.Errorf("catalog service requires a logger")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading catalog")
	}
	return snapshotFromModels(rows), nil
}

func (s *service) ListAll(ctx context.Context) ([]Entry, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Entries(), nil
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]Entry, error) {
	rows, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading catalog category")
	}
	return snapshotFromModels(rows).Entries(), nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading catalog categories")
	}
	return categories, nil
}

func (s *service) GetOption(ctx context.Context, id string) (Entry, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Entry{}, pkgerrors.New(pkgerrors.CodeNotFound, "catalog option not found")
		}
		return Entry{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading catalog option")
	}
	return entryFromModel(*row), nil
}

func (s *service) CreateOption(ctx context.Context, input CreateOptionInput) (Entry, error) {
	if input.UnitNetPrice.IsNegative() {
		return Entry{}, pkgerrors.New(pkgerrors.CodeValidation, "unit net price must not be negative")
	}
	row := models.CatalogOption{
		ID:           strings.TrimSpace(input.ID),
		Category:     strings.TrimSpace(input.Category),
		Name:         strings.TrimSpace(input.Name),
		UnitNetPrice: input.UnitNetPrice,
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return Entry{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating catalog option")
	}

	s.logg.Info(s.logg.WithField(ctx, "option_id", row.ID), "catalog option created")
	return entryFromModel(row), nil
}

func (s *service) UpdateOption(ctx context.Context, id string, input UpdateOptionInput) (Entry, error) {
	if input.UnitNetPrice.IsNegative() {
		return Entry{}, pkgerrors.New(pkgerrors.CodeValidation, "unit net price must not be negative")
	}
	row := models.CatalogOption{
		ID:           id,
		Category:     strings.TrimSpace(input.Category),
		Name:         strings.TrimSpace(input.Name),
		UnitNetPrice: input.UnitNetPrice,
	}
	if err := s.repo.Update(ctx, &row); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Entry{}, pkgerrors.New(pkgerrors.CodeNotFound, "catalog option not found")
		}
		return Entry{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating catalog option")
	}
	return entryFromModel(row), nil
}

func (s *service) DeleteOption(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "catalog option not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting catalog option")
	}
	s.logg.Info(s.logg.WithField(ctx, "option_id", id), "catalog option deleted")
	return nil
}

// ImportCSV replaces the whole catalog with the rows from r. Rows that fail
// to parse are skipped; their errors are accumulated and returned alongside
// the report so callers can surface every broken line at once.
func (s *service) ImportCSV(ctx context.Context, r io.Reader) (ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportReport{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading CSV header")
	}
	if err := validateHeader(header); err != nil {
		return ImportReport{}, err
	}

	var (
		rows    []models.CatalogOption
		rowErrs error
		report  ImportReport
		line    = 1
	)
	for {
		line++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			report.Skipped++
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("line %d: %w", line, err))
			continue
		}

		row, err := parseRecord(record)
		if err != nil {
			report.Skipped++
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		combined := multierr.Append(rowErrs, fmt.Errorf("no importable rows"))
		return report, pkgerrors.Wrap(pkgerrors.CodeValidation, combined, "CSV import produced no options")
	}

	if err := s.repo.ReplaceAll(ctx, rows); err != nil {
		return report, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replacing catalog")
	}
	report.Imported = len(rows)

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"imported": report.Imported,
		"skipped":  report.Skipped,
	}), "catalog imported")
	if rowErrs != nil {
		return report, pkgerrors.Wrap(pkgerrors.CodeValidation, rowErrs, "some CSV rows were skipped")
	}
	return report, nil
}

// SeedFromFile imports the CSV at path when the catalog is empty. Intended
// for first boot; a populated catalog is never overwritten.
func (s *service) SeedFromFile(ctx context.Context, path string) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting catalog options")
	}
	if count > 0 {
		s.logg.Debug(s.logg.WithField(ctx, "count", count), "catalog already populated, skipping seed")
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening catalog seed file")
	}
	defer f.Close()

	_, err = s.ImportCSV(ctx, f)
	return err
}

func validateHeader(header []string) error {
	if len(header) < len(csvHeader) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("CSV header must contain columns %s", strings.Join(csvHeader, ",")))
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unexpected CSV column %q, want %q", header[i], want))
		}
	}
	return nil
}

func parseRecord(record []string) (models.CatalogOption, error) {
	if len(record) < 4 {
		return models.CatalogOption{}, fmt.Errorf("expected 4 columns, got %d", len(record))
	}

	id := strings.TrimSpace(record[0])
	category := strings.TrimSpace(record[1])
	name := strings.TrimSpace(record[2])
	if id == "" || category == "" || name == "" {
		return models.CatalogOption{}, fmt.Errorf("id, category and name must not be empty")
	}

	// Polish spreadsheets commonly export prices with a comma separator.
	raw := strings.ReplaceAll(strings.TrimSpace(record[3]), ",", ".")
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return models.CatalogOption{}, fmt.Errorf("invalid price %q: %w", record[3], err)
	}
	if price.IsNegative() {
		return models.CatalogOption{}, fmt.Errorf("negative price %q", record[3])
	}

	return models.CatalogOption{
		ID:           id,
		Category:     category,
		Name:         name,
		UnitNetPrice: price,
	}, nil
}

func entryFromModel(row models.CatalogOption) Entry {
	return Entry{
		ID:           row.ID,
		Category:     row.Category,
		Name:         row.Name,
		UnitNetPrice: row.UnitNetPrice,
	}
}
