package dto

import "time"

// CertificateResponse salida de un certificado.
type CertificateResponse struct {
	ID              string            `json:"id"`
	BatchID         *string           `json:"batch_id,omitempty"`
	Code            string            `json:"code"`
	ParticipantName string            `json:"participant_name"`
	DocumentID      string            `json:"document_id"`
	Email           string            `json:"email"`
	Course          string            `json:"course"`
	IssueDate       string            `json:"issue_date"`
	Hours           string            `json:"hours"`
	Status          string            `json:"status"`
	RevokedAt       *time.Time        `json:"revoked_at,omitempty"`
	RevokeReason    string            `json:"revoke_reason,omitempty"`
	ValidationURL   string            `json:"validation_url"`
	Data            map[string]string `json:"data,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// CertificateListRequest filtros del listado (query string).
type CertificateListRequest struct {
	PageRequest
	Query   string `query:"q"`
	Status  string `query:"estado" validate:"omitempty,oneof=active revoked"`
	BatchID string `query:"lote_id"`
}

// CertificateListResponse lista paginada de certificados.
type CertificateListResponse struct {
	Items []CertificateResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// UpdateCertificateRequest cambios del participante y sobrescrituras; provoca la regeneración del PDF.
type UpdateCertificateRequest struct {
	ParticipantName *string           `json:"participant_name"`
	DocumentID      *string           `json:"document_id"`
	Email           *string           `json:"email" validate:"omitempty,email"`
	Course          *string           `json:"course"`
	IssueDate       *string           `json:"issue_date"`
	Hours           *string           `json:"hours"`
	Data            map[string]string `json:"data"` // valor vacío elimina la clave
}

// RevokeRequest motivo de la revocación.
type RevokeRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ZipRequest selección de certificados para descargar en ZIP.
type ZipRequest struct {
	IDs            []string `json:"ids" validate:"required,min=1"`
	IncludeRevoked bool     `json:"incluir_revocados"`
}

// ValidationResponse resultado público de validar un código.
type ValidationResponse struct {
	Code            string     `json:"code"`
	Valid           bool       `json:"valid"`
	Status          string     `json:"status"`
	CompanyName     string     `json:"company_name"`
	CompanySlug     string     `json:"company_slug"`
	ParticipantName string     `json:"participant_name"`
	DocumentID      string     `json:"document_id,omitempty"`
	Course          string     `json:"course"`
	IssueDate       string     `json:"issue_date"`
	Hours           string     `json:"hours,omitempty"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
	RevokeReason    string     `json:"revoke_reason,omitempty"`
}

// SendResult conteo de envíos de correo.
type SendResult struct {
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
