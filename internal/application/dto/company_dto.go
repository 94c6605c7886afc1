package dto

import "time"

// CreateCompanyRequest alta de un tenant por el administrador de la plataforma.
// Incluye el primer usuario administrador de la empresa.
type CreateCompanyRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Slug          string `json:"slug" validate:"omitempty,max=60"`
	NIT           string `json:"nit" validate:"omitempty,max=20"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PlanCode      string `json:"plan_code" validate:"required"`
	AdminName     string `json:"admin_name" validate:"required"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
}

// UpdateBrandingRequest datos de marca y contacto editables por el admin del tenant.
type UpdateBrandingRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=200"`
	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
}

// ChangePlanRequest cambio de plan (administrador de la plataforma).
type ChangePlanRequest struct {
	PlanCode    string     `json:"plan_code" validate:"required"`
	ResetIssued bool       `json:"reset_issued"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Status      *string    `json:"status" validate:"omitempty,oneof=active suspended inactive"`
}

// UsageResponse consumo del cupo del plan.
type UsageResponse struct {
	Limit     int  `json:"limit"`
	Issued    int  `json:"issued"`
	Remaining int  `json:"remaining"` // -1 = ilimitado
	Unlimited bool `json:"unlimited"`
}

// CompanyResponse salida completa de una empresa para su admin o la plataforma.
type CompanyResponse struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Slug           string        `json:"slug"`
	NIT            string        `json:"nit"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	Address        string        `json:"address"`
	Status         string        `json:"status"`
	PrimaryColor   string        `json:"primary_color"`
	SecondaryColor string        `json:"secondary_color"`
	LogoURL        string        `json:"logo_url,omitempty"`
	Plan           *PlanResponse `json:"plan,omitempty"`
	PlanExpiresAt  *time.Time    `json:"plan_expires_at,omitempty"`
	Usage          UsageResponse `json:"usage"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// PublicCompanyResponse marca visible en la landing del tenant.
type PublicCompanyResponse struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	LogoURL        string `json:"logo_url,omitempty"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCompanyResponse empresa creada y su primer administrador.
type CreateCompanyResponse struct {
	Company CompanyResponse `json:"company"`
	Admin   UserResponse    `json:"admin"`
}

// PlanResponse plan del catálogo público.
type PlanResponse struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	CertificateLimit int    `json:"certificate_limit"` // 0 = ilimitado
	Price            string `json:"price"`
	Currency         string `json:"currency"`
}

// ContactRequest formulario de contacto de la landing.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}
