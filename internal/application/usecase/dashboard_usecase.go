package usecase

import (
	"context"

	"github.com/jhoicas/vaxa-api/internal/application/auth"
	"github.com/jhoicas/vaxa-api/internal/application/certificates"
	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

// recentBatches cuántos lotes muestra el panel.
const recentBatches = 5

// DashboardUseCase resumen del panel del tenant.
type DashboardUseCase struct {
	companyRepo repository.CompanyRepository
	certRepo    repository.CertificateRepository
	batchRepo   repository.BatchRepository
	logoURL     LogoURLFunc
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	companyRepo repository.CompanyRepository,
	certRepo repository.CertificateRepository,
	batchRepo repository.BatchRepository,
	logoURL LogoURLFunc,
) *DashboardUseCase {
	return &DashboardUseCase{companyRepo: companyRepo, certRepo: certRepo, batchRepo: batchRepo, logoURL: logoURL}
}

// Get totales de certificados y lotes, consumo del cupo y últimos lotes.
func (uc *DashboardUseCase) Get(ctx context.Context, companyID string) (*dto.DashboardResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	stats, err := uc.certRepo.Stats(ctx, companyID)
	if err != nil {
		return nil, err
	}
	total, err := uc.batchRepo.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	batches, err := uc.batchRepo.ListByCompany(ctx, companyID, recentBatches, 0)
	if err != nil {
		return nil, err
	}
	resp := &dto.DashboardResponse{
		Company:       auth.ToPublicCompany(company, uc.logoURL),
		Certificates:  stats.Total,
		Active:        stats.Active,
		Revoked:       stats.Revoked,
		Batches:       total,
		Usage:         certificates.Usage(company),
		RecentBatches: make([]dto.BatchResponse, 0, len(batches)),
	}
	for _, b := range batches {
		resp.RecentBatches = append(resp.RecentBatches, certificates.ToBatchResponse(b))
	}
	return resp, nil
}
