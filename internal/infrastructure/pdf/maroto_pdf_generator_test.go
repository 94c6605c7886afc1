package pdf_test

import (
	"bytes"
	"context"
	stdimage "image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/pdf"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sampleValues() map[string]string {
	cert := &entity.Certificate{
		Code: "VX-ABCD-2345", ParticipantName: "Ana Gómez", DocumentID: "1020",
		Course: "Excel avanzado", IssueDate: "15/01/2024", Hours: "20",
	}
	return certificate.FieldValues(cert, nil, "Acme S.A.S.", "")
}

func TestRender_PlantillaPorDefecto(t *testing.T) {
	out, err := pdf.NewMarotoCertificateRenderer().Render(context.Background(), ports.RenderInput{
		Template:  certificate.DefaultTemplate("c1"),
		Values:    sampleValues(),
		QRContent: "http://localhost:3000/validar/VX-ABCD-2345",
		Title:     "Certificado VX-ABCD-2345",
		Author:    "Acme S.A.S.",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe iniciar con la firma PDF")
}

func TestRender_VerticalConFondoFirmasYAlineaciones(t *testing.T) {
	tpl := certificate.DefaultTemplate("c1")
	tpl.Orientation = entity.OrientationVertical
	tpl.QRX, tpl.QRY = 160, 240
	tpl.Fields = []entity.TemplateField{
		{Key: certificate.FieldNombre, X: 20, Y: 100, Width: 170, FontSize: 24, Bold: true, Align: entity.AlignCenter, Color: "#003366"},
		{Key: certificate.FieldTexto, X: 20, Y: 120, FontSize: 12, Align: entity.AlignLeft},
		{Key: certificate.FieldFecha, X: 20, Y: 140, Width: 170, FontSize: 10, Align: entity.AlignRight},
	}

	out, err := pdf.NewMarotoCertificateRenderer().Render(context.Background(), ports.RenderInput{
		Template:   tpl,
		Background: pngBytes(t, 210, 297),
		Values:     sampleValues(),
		QRContent:  "http://localhost:3000/validar/VX-ABCD-2345",
		Images: []ports.PlacedImage{
			{Data: pngBytes(t, 300, 100), X: 30, Y: 200, Width: 50, Caption: "María Ruiz", Subcaption: "Directora"},
			{Data: pngBytes(t, 80, 80), X: 20, Y: 15, Width: 25},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_Errores(t *testing.T) {
	r := pdf.NewMarotoCertificateRenderer()

	_, err := r.Render(context.Background(), ports.RenderInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = r.Render(context.Background(), ports.RenderInput{
		Template: certificate.DefaultTemplate("c1"),
		Images:   []ports.PlacedImage{{Data: []byte("no es imagen"), Width: 30}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFile)
}
