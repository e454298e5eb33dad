// Package service implements the commodity taxonomy operations.
package service

import (
	"context"
	"errors"
	"strings"

	"cold-storage-backend/internal/platform/validate"
	"cold-storage-backend/internal/taxonomy/domain"
	"cold-storage-backend/internal/taxonomy/repository"
)

// ErrNotFound is returned when a commodity id does not exist.
var ErrNotFound = errors.New("commodity not found")

// Service sits over the taxonomy repository and owns trimming and the
// skip-blank rule for bulk imports.
type Service struct {
	repo repository.Repository
}

// NewService returns a taxonomy Service backed by repo.
func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// UpsertPath resolves or creates a commodity, optionally a variety under it,
// and optionally a grade under that variety. Calling it twice with the same
// names leaves one row per level.
func (s *Service) UpsertPath(ctx context.Context, commodity, hsnCode, variety, grade string) error {
	row := trimRow(domain.ImportRow{
		Commodity: commodity,
		HSNCode:   hsnCode,
		Variety:   variety,
		Grade:     grade,
	})
	if row.Commodity == "" {
		return validate.NewError("commodity name is required")
	}
	return s.repo.UpsertPath(ctx, row)
}

// BulkImport upserts every row in a single transaction. Rows with a blank
// commodity name are silently skipped; any failure rolls the whole batch
// back. Returns how many rows were applied.
func (s *Service) BulkImport(ctx context.Context, rows []domain.ImportRow) (int, error) {
	kept := make([]domain.ImportRow, 0, len(rows))
	for _, row := range rows {
		row = trimRow(row)
		if row.Commodity == "" {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) == 0 {
		return 0, nil
	}
	if err := s.repo.BulkUpsert(ctx, kept); err != nil {
		return 0, err
	}
	return len(kept), nil
}

// ListCommodities returns every commodity.
func (s *Service) ListCommodities(ctx context.Context) ([]*domain.Commodity, error) {
	return s.repo.ListCommodities(ctx)
}

// ListVarieties returns the varieties under a commodity, empty for unknown
// parents.
func (s *Service) ListVarieties(ctx context.Context, commodityID int64) ([]*domain.Variety, error) {
	return s.repo.ListVarieties(ctx, commodityID)
}

// ListGrades returns the grades under a variety, empty for unknown parents.
func (s *Service) ListGrades(ctx context.Context, varietyID int64) ([]*domain.Grade, error) {
	return s.repo.ListGrades(ctx, varietyID)
}

// DeleteCommodity removes a commodity and, through the cascade, its varieties
// and grades.
func (s *Service) DeleteCommodity(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteCommodity(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func trimRow(row domain.ImportRow) domain.ImportRow {
	row.Commodity = strings.TrimSpace(row.Commodity)
	row.Variety = strings.TrimSpace(row.Variety)
	row.Grade = strings.TrimSpace(row.Grade)
	row.HSNCode = strings.TrimSpace(row.HSNCode)
	return row
}
