package entity

import "time"

// Estados de un certificado.
const (
	CertificateStatusActive  = "active"
	CertificateStatusRevoked = "revoked"
)

// Certificate (certificado) es un PDF emitido a un participante con un código público de validación.
type Certificate struct {
	ID              string
	CompanyID       string
	BatchID         *string // nil si se emitió fuera de un lote
	Code            string  // VX-XXXX-XXXX, único global
	ParticipantName string
	DocumentID      string
	Email           string
	Course          string
	IssueDate       string // texto ya normalizado (dd/mm/aaaa)
	Hours           string
	FilePath        string // ruta relativa en el storage
	Status          string // active, revoked
	RevokedAt       *time.Time
	RevokeReason    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsRevoked informa si el certificado fue revocado.
func (c *Certificate) IsRevoked() bool {
	return c.Status == CertificateStatusRevoked
}

// CertificateData (dato de certificado) guarda columnas extra del Excel o
// sobrescrituras clave/valor que el layout puede pintar.
type CertificateData struct {
	ID            string
	CertificateID string
	Key           string
	Value         string
}

// CertificateFilter filtros del listado de certificados de una empresa.
type CertificateFilter struct {
	CompanyID string
	Query     string // nombre, documento o código
	Status    string
	BatchID   string
	Limit     int
	Offset    int
}

// CertificateStats totales del dashboard.
type CertificateStats struct {
	Total   int
	Active  int
	Revoked int
}
