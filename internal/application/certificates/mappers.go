package certificates

import (
	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

// Usage consumo del cupo de la empresa.
func Usage(c *entity.Company) dto.UsageResponse {
	remaining := certificate.Remaining(c.CertificateLimit, c.CertificatesIssued)
	return dto.UsageResponse{
		Limit:     c.CertificateLimit,
		Issued:    c.CertificatesIssued,
		Remaining: remaining,
		Unlimited: remaining == certificate.Unlimited,
	}
}

// ToBatchResponse mapea un lote a su DTO.
func ToBatchResponse(b *entity.Batch) dto.BatchResponse {
	errs := make([]dto.RowErrorResponse, 0, len(b.Errors))
	for _, e := range b.Errors {
		errs = append(errs, dto.RowErrorResponse{Row: e.Row, Name: e.Name, Message: e.Message})
	}
	return dto.BatchResponse{
		ID:             b.ID,
		Name:           b.Name,
		SourceFilename: b.SourceFilename,
		TotalRows:      b.TotalRows,
		Generated:      b.Generated,
		Failed:         b.Failed,
		Status:         b.Status,
		CreatedBy:      b.CreatedBy,
		Errors:         errs,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toCertificateResponse(c *entity.Certificate, data []entity.CertificateData, validationURL ValidationURLFunc) dto.CertificateResponse {
	resp := dto.CertificateResponse{
		ID:              c.ID,
		BatchID:         c.BatchID,
		Code:            c.Code,
		ParticipantName: c.ParticipantName,
		DocumentID:      c.DocumentID,
		Email:           c.Email,
		Course:          c.Course,
		IssueDate:       c.IssueDate,
		Hours:           c.Hours,
		Status:          c.Status,
		RevokedAt:       c.RevokedAt,
		RevokeReason:    c.RevokeReason,
		ValidationURL:   validationURL(c.Code),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if len(data) > 0 {
		resp.Data = make(map[string]string, len(data))
		for _, d := range data {
			resp.Data[d.Key] = d.Value
		}
	}
	return resp
}
