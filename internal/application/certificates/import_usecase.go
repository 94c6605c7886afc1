package certificates

import (
	"context"
	"fmt"
	"io"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

const previewRows = 10

// ImportUseCase vista previa de un Excel antes de generar.
type ImportUseCase struct {
	companyRepo repository.CompanyRepository
	reader      ports.SpreadsheetReader
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(companyRepo repository.CompanyRepository, reader ports.SpreadsheetReader) *ImportUseCase {
	return &ImportUseCase{companyRepo: companyRepo, reader: reader}
}

// Preview lee el archivo y devuelve encabezados, filas de muestra y un mapeo sugerido.
func (uc *ImportUseCase) Preview(ctx context.Context, companyID string, file io.Reader) (*dto.ImportPreviewResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("import: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	roster, err := uc.reader.Read(ctx, file)
	if err != nil {
		return nil, err
	}
	sample := roster.Rows
	if len(sample) > previewRows {
		sample = sample[:previewRows]
	}
	return &dto.ImportPreviewResponse{
		Sheet:            roster.Sheet,
		Headers:          roster.Headers,
		Rows:             sample,
		TotalRows:        len(roster.Rows),
		SuggestedMapping: SuggestMapping(roster.Headers),
		Fields:           certificate.MappableFields,
		Remaining:        certificate.Remaining(company.CertificateLimit, company.CertificatesIssued),
	}, nil
}
