package repository

import (
	"context"

	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

// TemplateRepository plantilla (una por empresa) con sus campos.
type TemplateRepository interface {
	// GetByCompany devuelve (nil, nil) si la empresa nunca guardó plantilla.
	GetByCompany(ctx context.Context, companyID string) (*entity.TemplateConfig, error)
	// Save inserta o actualiza la plantilla y reemplaza sus campos.
	Save(ctx context.Context, tpl *entity.TemplateConfig) error
}
