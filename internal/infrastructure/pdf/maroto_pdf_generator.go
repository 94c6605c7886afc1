// Package pdf pinta certificados con Maroto v2.
//
// Maroto arma la página por filas y columnas; el certificado necesita posiciones
// absolutas en mm. Se usa una sola fila del alto útil de la página con una columna
// de ancho completo, y cada componente se ubica con Top/Left relativos al margen.
//
//	┌──────────────────────────────────────────────┐
//	│ margen                                       │
//	│   ┌──────────── fila única ────────────────┐ │
//	│   │  empresa (centrado)                    │ │
//	│   │  nombre del participante               │ │
//	│   │  texto del cuerpo         [logo]       │ │
//	│   │  [firma]  [firma]                 [QR] │ │
//	│   └────────────────────────────────────────┘ │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"bytes"
	"context"
	"fmt"
	stdimage "image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sort"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

const (
	margin = 10.0
	// slack evita que la fila única desborde a una segunda página por redondeo.
	slack = 1.0
	// captionGap separación entre una firma y su pie.
	captionGap = 1.5
)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorText = &props.Color{Red: 31, Green: 31, Blue: 31}
	colorGray = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.CertificateRenderer = (*MarotoCertificateRenderer)(nil)

// MarotoCertificateRenderer implementa ports.CertificateRenderer usando Maroto v2.
type MarotoCertificateRenderer struct{}

// NewMarotoCertificateRenderer construye el renderer.
func NewMarotoCertificateRenderer() *MarotoCertificateRenderer {
	return &MarotoCertificateRenderer{}
}

// Render genera el PDF de una página y devuelve sus bytes.
func (g *MarotoCertificateRenderer) Render(_ context.Context, in ports.RenderInput) ([]byte, error) {
	tpl := in.Template
	if tpl == nil {
		return nil, fmt.Errorf("%w: plantilla requerida", domain.ErrInvalidInput)
	}
	pageW, pageH := tpl.PageSize()
	box := area{width: pageW - 2*margin, height: pageH - 2*margin - slack}

	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(pageOrientation(tpl.Orientation)).
		WithLeftMargin(margin).WithRightMargin(margin).
		WithTopMargin(margin).WithBottomMargin(margin).
		WithDefaultFont(&props.Font{Family: fontFamily(tpl.FontFamily), Size: 12, Color: colorText}).
		WithTitle(in.Title, true).
		WithAuthor(in.Author, true)
	if len(in.Background) > 0 {
		ext, _, err := imageInfo(in.Background)
		if err != nil {
			return nil, fmt.Errorf("pdf: fondo: %w", err)
		}
		builder = builder.WithBackgroundImage(in.Background, ext)
	}
	m := maroto.New(builder.Build())

	components := make([]core.Component, 0, len(tpl.Fields)+len(in.Images)*3+1)
	for _, f := range sortedFields(tpl.Fields) {
		value := in.Values[f.Key]
		if value == "" {
			continue
		}
		components = append(components, box.text(value, f, fontFamily(tpl.FontFamily)))
	}
	for _, img := range in.Images {
		parts, err := box.image(img, fontFamily(tpl.FontFamily))
		if err != nil {
			return nil, err
		}
		components = append(components, parts...)
	}
	if tpl.ShowQR && in.QRContent != "" {
		components = append(components, code.NewQr(in.QRContent, props.Rect{
			Left:    offset(tpl.QRX),
			Top:     offset(tpl.QRY),
			Percent: box.percentForHeight(tpl.QRSize),
		}))
	}

	m.AddRows(row.New(box.height).Add(col.New(12).Add(components...)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Posicionamiento ───────────────────────────────────────────────────────────

// area zona útil de la página (dentro de los márgenes) en mm.
type area struct {
	width  float64
	height float64
}

// text ubica un campo. X/Y son la esquina superior izquierda de la caja del campo;
// sin ancho la caja llega al borde derecho. Un campo centrado sin ancho se centra en la página.
func (a area) text(value string, f entity.TemplateField, family string) core.Component {
	p := props.Text{
		Top:    offset(f.Y),
		Size:   f.FontSize,
		Family: family,
		Style:  fontstyle.Normal,
		Color:  parseColor(f.Color),
	}
	if f.Bold {
		p.Style = fontstyle.Bold
	}
	left := offset(f.X)
	right := 0.0
	if f.Width > 0 {
		right = math.Max(0, a.width-left-f.Width)
	}
	switch f.Align {
	case entity.AlignCenter:
		p.Align = align.Center
		if f.Width > 0 {
			p.Left, p.Right = left, right
		}
	case entity.AlignRight:
		p.Align = align.Right
		p.Left, p.Right = left, right
	default:
		p.Align = align.Left
		p.Left, p.Right = left, right
	}
	return text.New(value, p)
}

// image ubica una firma o logo con su ancho en mm y, si tiene, el pie con nombre y cargo.
func (a area) image(img ports.PlacedImage, family string) ([]core.Component, error) {
	ext, cfg, err := imageInfo(img.Data)
	if err != nil {
		return nil, fmt.Errorf("pdf: imagen: %w", err)
	}
	width := img.Width
	if width <= 0 {
		width = 40
	}
	height := width * float64(cfg.Height) / float64(cfg.Width)

	out := []core.Component{
		image.NewFromBytes(img.Data, ext, props.Rect{
			Left:    offset(img.X),
			Top:     offset(img.Y),
			Percent: a.percentFor(width, height),
		}),
	}
	captionProps := func(top, size float64, style fontstyle.Type, color *props.Color) props.Text {
		left := offset(img.X)
		return props.Text{
			Top: top, Left: left, Right: math.Max(0, a.width-left-width),
			Size: size, Style: style, Align: align.Center, Family: family, Color: color,
		}
	}
	top := offset(img.Y) + height + captionGap
	if img.Caption != "" {
		out = append(out, text.New(img.Caption, captionProps(top, 10, fontstyle.Bold, colorText)))
		top += 5
	}
	if img.Subcaption != "" {
		out = append(out, text.New(img.Subcaption, captionProps(top, 8, fontstyle.Normal, colorGray)))
	}
	return out, nil
}

// percentFor traduce un tamaño en mm al porcentaje que Maroto aplica sobre la celda:
// si la imagen es proporcionalmente más alta que la celda escala por alto, si no por ancho.
func (a area) percentFor(width, height float64) float64 {
	if height/width > a.height/a.width {
		return a.percentForHeight(height)
	}
	return clampPercent(width / a.width * 100)
}

func (a area) percentForHeight(height float64) float64 {
	return clampPercent(height / a.height * 100)
}

func clampPercent(p float64) float64 {
	return math.Min(100, math.Max(1, p))
}

// offset convierte una coordenada de página en desplazamiento dentro del margen.
func offset(v float64) float64 {
	return math.Max(0, v-margin)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sortedFields(fields []entity.TemplateField) []entity.TemplateField {
	out := append([]entity.TemplateField(nil), fields...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func pageOrientation(o string) orientation.Type {
	if o == entity.OrientationVertical {
		return orientation.Vertical
	}
	return orientation.Horizontal
}

func fontFamily(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case fontfamily.Arial:
		return fontfamily.Arial
	case fontfamily.Courier:
		return fontfamily.Courier
	case "times":
		return "times"
	default:
		return fontfamily.Helvetica
	}
}

// parseColor acepta #RRGGBB; cualquier otro valor usa el color de texto por defecto.
func parseColor(hex string) *props.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return colorText
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return colorText
	}
	return &props.Color{Red: int(v >> 16 & 0xFF), Green: int(v >> 8 & 0xFF), Blue: int(v & 0xFF)}
}

// imageInfo detecta PNG o JPEG y lee sus dimensiones.
func imageInfo(data []byte) (extension.Type, stdimage.Config, error) {
	cfg, format, err := stdimage.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", cfg, fmt.Errorf("%w: la imagen debe ser PNG o JPEG", domain.ErrInvalidFile)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return "", cfg, fmt.Errorf("%w: imagen sin dimensiones", domain.ErrInvalidFile)
	}
	switch format {
	case "png":
		return extension.Png, cfg, nil
	case "jpeg":
		return extension.Jpg, cfg, nil
	default:
		return "", cfg, fmt.Errorf("%w: formato %s no soportado", domain.ErrInvalidFile, format)
	}
}
