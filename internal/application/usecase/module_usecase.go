package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

// CompanyStatusService decide si un tenant puede operar: empresa activa y plan vigente.
// Es el único punto de la aplicación que conoce esa regla.
type CompanyStatusService struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyStatusService construye el servicio.
func NewCompanyStatusService(companyRepo repository.CompanyRepository) *CompanyStatusService {
	return &CompanyStatusService{companyRepo: companyRepo}
}

// CheckActive devuelve domain.ErrCompanyInactive o domain.ErrPlanExpired si el tenant no puede operar.
// Cualquier otro error es de infraestructura (DB caída, timeout, etc.).
func (s *CompanyStatusService) CheckActive(ctx context.Context, companyID string) error {
	if companyID == "" {
		return fmt.Errorf("company status: companyID es obligatorio")
	}
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil || company.Status != entity.CompanyStatusActive {
		return domain.ErrCompanyInactive
	}
	if company.PlanExpired(time.Now()) {
		return domain.ErrPlanExpired
	}
	return nil
}
