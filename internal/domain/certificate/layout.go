package certificate

import (
	"fmt"
	"strings"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

// Claves de campo conocidas por el layout y el mapeo de columnas.
const (
	FieldNombre    = "nombre"
	FieldDocumento = "documento"
	FieldEmail     = "email"
	FieldCurso     = "curso"
	FieldFecha     = "fecha"
	FieldHoras     = "horas"
	FieldCodigo    = "codigo"
	FieldTexto     = "texto"
	FieldEmpresa   = "empresa"
)

// MappableFields campos del certificado que se pueden mapear desde una columna del Excel.
var MappableFields = []string{FieldNombre, FieldDocumento, FieldEmail, FieldCurso, FieldFecha, FieldHoras}

// IsMappable informa si key es un campo mapeable.
func IsMappable(key string) bool {
	for _, f := range MappableFields {
		if f == key {
			return true
		}
	}
	return false
}

// ReservedFields claves que sólo salen del registro del certificado y de la empresa;
// ningún DatoCertificado puede reemplazarlas.
var ReservedFields = []string{FieldCodigo, FieldEmpresa}

// ReservedDataPrefix prefijo con el que se guarda un dato extra cuya clave está reservada.
const ReservedDataPrefix = "dato_"

// IsReserved informa si key es una clave reservada.
func IsReserved(key string) bool {
	for _, f := range ReservedFields {
		if f == key {
			return true
		}
	}
	return false
}

// DataKey clave con la que se guarda un dato extra: "codigo" → "dato_codigo".
func DataKey(key string) string {
	if IsReserved(key) {
		return ReservedDataPrefix + key
	}
	return key
}

// DefaultBodyText texto del cuerpo cuando la empresa no configuró uno.
const DefaultBodyText = "Por su participación en {curso}, con una intensidad de {horas} horas."

// DefaultTemplate layout horizontal centrado que se usa cuando la empresa nunca guardó plantilla.
func DefaultTemplate(companyID string) *entity.TemplateConfig {
	center := func(key string, y, size float64, bold bool, color string, pos int) entity.TemplateField {
		return entity.TemplateField{Key: key, X: 0, Y: y, FontSize: size, Bold: bold, Align: entity.AlignCenter, Color: color, Position: pos}
	}
	return &entity.TemplateConfig{
		CompanyID:   companyID,
		Name:        "Plantilla por defecto",
		Orientation: entity.OrientationHorizontal,
		FontFamily:  "helvetica",
		BodyText:    DefaultBodyText,
		ShowQR:      true,
		QRX:         245,
		QRY:         150,
		QRSize:      35,
		Fields: []entity.TemplateField{
			center(FieldEmpresa, 25, 16, true, "#00467F", 0),
			center(FieldNombre, 80, 28, true, "#1F1F1F", 1),
			center(FieldDocumento, 98, 11, false, "#646464", 2),
			center(FieldTexto, 112, 13, false, "#1F1F1F", 3),
			center(FieldFecha, 130, 11, false, "#646464", 4),
			{Key: FieldCodigo, X: 240, Y: 188, FontSize: 8, Align: entity.AlignLeft, Color: "#646464", Position: 5},
		},
	}
}

// ValidateTemplate revisa coordenadas dentro de la página, tamaños de fuente,
// alineaciones, colores y claves repetidas.
func ValidateTemplate(t *entity.TemplateConfig) error {
	if t.Orientation != entity.OrientationHorizontal && t.Orientation != entity.OrientationVertical {
		return fmt.Errorf("%w: orientación inválida %q", domain.ErrInvalidInput, t.Orientation)
	}
	w, h := t.PageSize()
	if t.ShowQR {
		if t.QRSize < 10 || t.QRSize > 100 {
			return fmt.Errorf("%w: tamaño del QR debe estar entre 10 y 100 mm", domain.ErrInvalidInput)
		}
		if t.QRX < 0 || t.QRY < 0 || t.QRX+t.QRSize > w || t.QRY+t.QRSize > h {
			return fmt.Errorf("%w: el QR queda fuera de la página", domain.ErrInvalidInput)
		}
	}
	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		key := strings.TrimSpace(f.Key)
		if key == "" {
			return fmt.Errorf("%w: campo sin clave", domain.ErrInvalidInput)
		}
		if seen[key] {
			return fmt.Errorf("%w: campo %q repetido", domain.ErrInvalidInput, key)
		}
		seen[key] = true
		if f.X < 0 || f.Y < 0 || f.X > w || f.Y > h {
			return fmt.Errorf("%w: campo %q fuera de la página", domain.ErrInvalidInput, key)
		}
		if f.FontSize < 4 || f.FontSize > 96 {
			return fmt.Errorf("%w: tamaño de fuente de %q debe estar entre 4 y 96", domain.ErrInvalidInput, key)
		}
		switch f.Align {
		case entity.AlignLeft, entity.AlignCenter, entity.AlignRight:
		default:
			return fmt.Errorf("%w: alineación inválida en %q", domain.ErrInvalidInput, key)
		}
		if f.Color != "" && !ValidHexColor(f.Color) {
			return fmt.Errorf("%w: color inválido en %q", domain.ErrInvalidInput, key)
		}
	}
	return nil
}

// ValidHexColor acepta #RRGGBB.
func ValidHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

// FieldValues resuelve el texto de cada clave de campo para un certificado.
// Los datos extra (DatoCertificado) tienen prioridad sobre los campos fijos,
// así una sobrescritura puede cambiar lo que se imprime sin tocar el registro.
// El código de validación y el nombre de la empresa nunca se sobrescriben.
func FieldValues(cert *entity.Certificate, data []entity.CertificateData, companyName, bodyText string) map[string]string {
	values := map[string]string{
		FieldNombre:    cert.ParticipantName,
		FieldDocumento: cert.DocumentID,
		FieldEmail:     cert.Email,
		FieldCurso:     cert.Course,
		FieldFecha:     cert.IssueDate,
		FieldHoras:     cert.Hours,
		FieldCodigo:    cert.Code,
		FieldEmpresa:   companyName,
	}
	for _, d := range data {
		if IsReserved(d.Key) {
			continue
		}
		values[d.Key] = d.Value
	}
	if bodyText == "" {
		bodyText = DefaultBodyText
	}
	if _, ok := values[FieldTexto]; !ok {
		values[FieldTexto] = FillPlaceholders(bodyText, values)
	}
	return values
}

// FillPlaceholders sustituye {clave} por su valor; las claves desconocidas quedan vacías.
func FillPlaceholders(text string, values map[string]string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(text, '{')
		if start < 0 {
			b.WriteString(text)
			break
		}
		end := strings.IndexByte(text[start:], '}')
		if end < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:start])
		key := strings.TrimSpace(text[start+1 : start+end])
		b.WriteString(values[key])
		text = text[start+end+1:]
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
