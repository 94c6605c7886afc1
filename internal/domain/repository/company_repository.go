package repository

import (
	"context"

	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. Los Get* devuelven (nil, nil) si no existe.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Company, error)
	// Update guarda datos, estado y marca; nunca toca plan, cupo ni el contador de emitidos.
	Update(ctx context.Context, company *entity.Company) error
	// UpdatePlan guarda plan, cupo, vencimiento y estado. Sin resetIssued devuelve
	// domain.ErrConflict si lo ya emitido supera el nuevo cupo.
	UpdatePlan(ctx context.Context, company *entity.Company, resetIssued bool) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	// IncrementIssued suma n al contador de emitidos de forma atómica.
	// Devuelve domain.ErrPlanLimitExceeded si con n se supera el cupo del plan.
	IncrementIssued(ctx context.Context, companyID string, n int) error
}

// PlanRepository catálogo de planes comerciales.
type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	GetByCode(ctx context.Context, code string) (*entity.Plan, error)
	ListActive(ctx context.Context) ([]*entity.Plan, error)
}
