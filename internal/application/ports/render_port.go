package ports

import (
	"context"

	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

// PlacedImage imagen (firma o logo) ubicada en mm sobre la página.
// Caption y Subcaption se escriben debajo de la imagen (nombre y cargo del firmante).
type PlacedImage struct {
	Data       []byte
	X          float64
	Y          float64
	Width      float64
	Caption    string
	Subcaption string
}

// RenderInput todo lo que necesita el renderer para pintar un certificado.
type RenderInput struct {
	Template   *entity.TemplateConfig
	Background []byte            // PNG o JPEG; nil = página en blanco
	Values     map[string]string // clave de campo → texto
	QRContent  string            // URL pública de validación
	Images     []PlacedImage
	Title      string
	Author     string
}

// CertificateRenderer puerto de salida para generar el PDF de un certificado.
type CertificateRenderer interface {
	Render(ctx context.Context, in RenderInput) ([]byte, error)
}
