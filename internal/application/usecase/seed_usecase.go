package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

// DefaultPlans catálogo inicial de la landing.
func DefaultPlans() []entity.Plan {
	return []entity.Plan{
		{Code: "basico", Name: "Básico", Description: "Hasta 100 certificados", CertificateLimit: 100, Price: decimal.NewFromInt(49000), Currency: "COP"},
		{Code: "profesional", Name: "Profesional", Description: "Hasta 1.000 certificados", CertificateLimit: 1000, Price: decimal.NewFromInt(149000), Currency: "COP"},
		{Code: "empresarial", Name: "Empresarial", Description: "Certificados ilimitados", CertificateLimit: 0, Price: decimal.NewFromInt(399000), Currency: "COP"},
	}
}

// SeedUseCase arranque idempotente: catálogo de planes y primer tenant.
type SeedUseCase struct {
	planRepo  repository.PlanRepository
	companies *CompanyUseCase
}

// NewSeedUseCase construye el caso de uso de arranque.
func NewSeedUseCase(planRepo repository.PlanRepository, companies *CompanyUseCase) *SeedUseCase {
	return &SeedUseCase{planRepo: planRepo, companies: companies}
}

// EnsurePlans crea los planes que falten por código. Devuelve cuántos creó.
func (uc *SeedUseCase) EnsurePlans(ctx context.Context, plans []entity.Plan) (int, error) {
	created := 0
	for _, p := range plans {
		existing, err := uc.planRepo.GetByCode(ctx, p.Code)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		now := time.Now()
		p.ID = uuid.New().String()
		p.IsActive = true
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := uc.planRepo.Create(ctx, &p); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// EnsureTenant crea el tenant si su slug no existe. created=false si ya estaba.
func (uc *SeedUseCase) EnsureTenant(ctx context.Context, in dto.CreateCompanyRequest) (created bool, err error) {
	_, err = uc.companies.Create(ctx, in)
	if errors.Is(err, domain.ErrDuplicate) {
		return false, nil
	}
	return err == nil, err
}
