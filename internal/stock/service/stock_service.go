// Package service implements the stock ledger operations.
package service

import (
	"context"
	"time"

	"cold-storage-backend/internal/platform/validate"
	"cold-storage-backend/internal/stock/domain"
	"cold-storage-backend/internal/stock/repository"
)

// RecordInput carries one acceptance or delivery request. Pointer fields
// distinguish absent from zero, so a quantity of 0 is accepted while a
// missing quantity is not.
type RecordInput struct {
	ClientID      *int64
	CommodityCode string
	Variety       string
	Quantity      *float64
}

// Service appends to and reads from the ledger.
type Service struct {
	repo repository.Repository
	now  func() time.Time
}

// NewService returns a stock Service backed by repo.
func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Accept records goods entering the facility, stamped with the server clock
// and the acting username.
func (s *Service) Accept(ctx context.Context, actor string, in RecordInput) (*domain.Entry, error) {
	return s.record(ctx, domain.DirectionAcceptance, actor, in)
}

// Deliver records goods leaving the facility.
func (s *Service) Deliver(ctx context.Context, actor string, in RecordInput) (*domain.Entry, error) {
	return s.record(ctx, domain.DirectionDelivery, actor, in)
}

func (s *Service) record(ctx context.Context, direction domain.Direction, actor string, in RecordInput) (*domain.Entry, error) {
	var violations []string
	if in.ClientID == nil {
		violations = append(violations, "client_id is required")
	}
	if in.CommodityCode == "" {
		violations = append(violations, "commodity_code is required")
	}
	if in.Variety == "" {
		violations = append(violations, "variety is required")
	}
	switch {
	case in.Quantity == nil:
		violations = append(violations, "quantity is required")
	case *in.Quantity < 0:
		violations = append(violations, "quantity must not be negative")
	}
	if len(violations) > 0 {
		return nil, validate.NewError(violations...)
	}

	e := &domain.Entry{
		Direction:     direction,
		ClientID:      *in.ClientID,
		CommodityCode: in.CommodityCode,
		Variety:       in.Variety,
		Quantity:      *in.Quantity,
		HandledBy:     actor,
		CreatedAt:     s.now(),
	}
	id, err := s.repo.Append(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = id
	return e, nil
}

// ListAcceptances returns every acceptance, newest first.
func (s *Service) ListAcceptances(ctx context.Context) ([]*domain.Entry, error) {
	return s.repo.List(ctx, domain.DirectionAcceptance)
}

// ListDeliveries returns every delivery, newest first.
func (s *Service) ListDeliveries(ctx context.Context) ([]*domain.Entry, error) {
	return s.repo.List(ctx, domain.DirectionDelivery)
}
