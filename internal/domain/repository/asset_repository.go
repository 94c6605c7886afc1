package repository

import (
	"context"

	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

// SignatureRepository firmas digitales de una empresa.
type SignatureRepository interface {
	Create(ctx context.Context, sig *entity.Signature) error
	GetByID(ctx context.Context, id string) (*entity.Signature, error)
	ListByCompany(ctx context.Context, companyID string, onlyActive bool) ([]*entity.Signature, error)
	Update(ctx context.Context, sig *entity.Signature) error
	Delete(ctx context.Context, id string) error
}

// LogoRepository logos de una empresa.
type LogoRepository interface {
	Create(ctx context.Context, logo *entity.Logo) error
	GetByID(ctx context.Context, id string) (*entity.Logo, error)
	ListByCompany(ctx context.Context, companyID string, onlyActive bool) ([]*entity.Logo, error)
	Update(ctx context.Context, logo *entity.Logo) error
	Delete(ctx context.Context, id string) error
}
