package entity

import "time"

// Orientaciones de página soportadas.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

// Alineaciones de un campo.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// TemplateConfig (configuración de plantilla) define el layout del certificado de una empresa:
// imagen de fondo, texto del cuerpo, posición del QR y campos de texto.
// Las coordenadas están en milímetros desde la esquina superior izquierda de la página A4.
type TemplateConfig struct {
	ID             string
	CompanyID      string
	Name           string
	Orientation    string
	BackgroundPath string
	FontFamily     string
	BodyText       string // admite marcadores {nombre}, {curso}, {fecha}, ...
	ShowQR         bool
	QRX            float64
	QRY            float64
	QRSize         float64
	Fields         []TemplateField
	UpdatedAt      time.Time
}

// TemplateField (campo de plantilla) ubica un valor del certificado en la página.
type TemplateField struct {
	ID         string
	TemplateID string
	Key        string // nombre, documento, curso, fecha, horas, codigo, texto, empresa o una clave de DatoCertificado
	X          float64
	Y          float64
	Width      float64 // ancho de la caja; 0 = hasta el borde derecho
	FontSize   float64
	Bold       bool
	Align      string
	Color      string // #RRGGBB
	Position   int
}

// PageSize devuelve ancho y alto en mm de la página A4 según la orientación.
func (t *TemplateConfig) PageSize() (width, height float64) {
	if t.Orientation == OrientationVertical {
		return 210, 297
	}
	return 297, 210
}
