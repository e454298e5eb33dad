package repository

import (
	"context"

	"cold-storage-backend/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Save(ctx context.Context, a *domain.AuditLog) error
	// ListRecent returns up to limit most recent entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error)
}
