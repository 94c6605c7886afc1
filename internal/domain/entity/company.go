package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una empresa.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)

// Company (empresa) es el tenant del sistema: marca propia, plan y cupo de certificados.
// Se identifica en la URL pública por Slug.
type Company struct {
	ID                 string
	Name               string
	Slug               string
	NIT                string // opcional
	Email              string
	Phone              string
	Address            string
	Status             string // active, suspended, inactive
	PlanID             string
	CertificateLimit   int // 0 = ilimitado
	CertificatesIssued int
	PlanExpiresAt      *time.Time // nil = sin vencimiento
	PrimaryColor       string     // #RRGGBB
	SecondaryColor     string
	LogoPath           string // logo principal para la landing
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PlanExpired informa si el plan ya venció respecto a now.
func (c *Company) PlanExpired(now time.Time) bool {
	return c.PlanExpiresAt != nil && !c.PlanExpiresAt.After(now)
}

// Plan es un plan comercial de la landing; fija el cupo de certificados.
type Plan struct {
	ID               string
	Code             string // basico, profesional, empresarial
	Name             string
	Description      string
	CertificateLimit int // 0 = ilimitado
	Price            decimal.Decimal
	Currency         string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
