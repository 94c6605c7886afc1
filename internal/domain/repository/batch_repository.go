package repository

import (
	"context"

	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para Batch (lote).
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	// Update persiste contadores, estado y errores por fila.
	Update(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Batch, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
}
