package ports

import (
	"context"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
)

// ValidationCache cachea la respuesta pública de validación por código.
// Los errores del cache nunca deben impedir responder desde la base de datos.
type ValidationCache interface {
	Get(ctx context.Context, code string) (*dto.ValidationResponse, bool, error)
	Set(ctx context.Context, code string, v *dto.ValidationResponse) error
	Invalidate(ctx context.Context, code string) error
	// InvalidateCompany descarta todas las validaciones cacheadas de la empresa del slug.
	InvalidateCompany(ctx context.Context, companySlug string) error
}
