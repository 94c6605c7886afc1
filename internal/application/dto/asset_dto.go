package dto

import "time"

// AssetPlacement posición y ancho en mm de una imagen en el certificado.
type AssetPlacement struct {
	X     float64 `json:"x" form:"x"`
	Y     float64 `json:"y" form:"y"`
	Width float64 `json:"width" form:"width"`
}

// CreateSignatureRequest campos de formulario que acompañan la imagen de la firma.
type CreateSignatureRequest struct {
	SignerName  string `form:"signer_name"`
	SignerTitle string `form:"signer_title"`
	AssetPlacement
}

// SignatureResponse salida de una firma digital.
type SignatureResponse struct {
	ID          string    `json:"id"`
	SignerName  string    `json:"signer_name"`
	SignerTitle string    `json:"signer_title"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateLogoRequest campos de formulario que acompañan la imagen del logo.
type CreateLogoRequest struct {
	Name string `form:"name"`
	AssetPlacement
}

// LogoResponse salida de un logo.
type LogoResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleAssetRequest activa o desactiva una firma o un logo.
type ToggleAssetRequest struct {
	IsActive bool `json:"is_active"`
}
