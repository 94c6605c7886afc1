package repository

import (
	"context"

	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

// CertificateRepository define el puerto de persistencia para Certificate.
type CertificateRepository interface {
	Create(ctx context.Context, cert *entity.Certificate) error
	// Update actualiza datos del participante, ruta del PDF y estado.
	Update(ctx context.Context, cert *entity.Certificate) error
	GetByID(ctx context.Context, id string) (*entity.Certificate, error)
	GetByCode(ctx context.Context, code string) (*entity.Certificate, error)
	ExistsCode(ctx context.Context, code string) (bool, error)
	// List devuelve la página pedida y el total sin paginar.
	List(ctx context.Context, filter entity.CertificateFilter) ([]*entity.Certificate, int, error)
	ListByBatch(ctx context.Context, batchID string) ([]*entity.Certificate, error)
	ListByIDs(ctx context.Context, companyID string, ids []string) ([]*entity.Certificate, error)
	Stats(ctx context.Context, companyID string) (entity.CertificateStats, error)
}

// CertificateDataRepository datos clave/valor de cada certificado.
type CertificateDataRepository interface {
	// Replace reemplaza todos los datos del certificado por data.
	Replace(ctx context.Context, certificateID string, data []entity.CertificateData) error
	ListByCertificate(ctx context.Context, certificateID string) ([]entity.CertificateData, error)
}
