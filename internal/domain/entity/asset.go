package entity

import "time"

// Signature (firma digital) es la imagen de una firma con los datos de quien firma.
// Todas las firmas activas de la empresa se estampan en cada certificado.
type Signature struct {
	ID          string
	CompanyID   string
	SignerName  string
	SignerTitle string
	ImagePath   string
	X           float64
	Y           float64
	Width       float64
	IsActive    bool
	CreatedAt   time.Time
}

// Logo es una imagen de marca que se estampa en los certificados.
type Logo struct {
	ID        string
	CompanyID string
	Name      string
	ImagePath string
	X         float64
	Y         float64
	Width     float64
	IsActive  bool
	CreatedAt time.Time
}
