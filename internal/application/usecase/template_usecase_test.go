package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vaxa-api/internal/application/certificates"
	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/application/usecase"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/storage"
)

type stubRenderer struct{ last ports.RenderInput }

func (r *stubRenderer) Render(_ context.Context, in ports.RenderInput) ([]byte, error) {
	r.last = in
	return []byte("%PDF-1.4 " + in.Values[certificate.FieldNombre]), nil
}

func newTemplates(e *env, r ports.CertificateRenderer) *usecase.TemplateUseCase {
	composer := certificates.NewComposer(e.repos.Templates, e.repos.Signatures, e.repos.Logos, e.storage, r,
		func(code string) string { return "https://vaxa.app/validar/" + code })
	return usecase.NewTemplateUseCase(e.repos.Templates, e.repos.Companies, e.storage, composer, zerolog.Nop())
}

func layoutRequest() dto.SaveTemplateRequest {
	return dto.SaveTemplateRequest{
		Name:        "Diploma",
		Orientation: entity.OrientationVertical,
		FontFamily:  " Times ",
		BodyText:    "Certifica que asistió",
		ShowQR:      true,
		QRX:         20,
		QRY:         240,
		QRSize:      30,
		Fields: []dto.TemplateFieldDTO{
			{Key: certificate.FieldNombre, X: 0, Y: 100, FontSize: 24, Bold: true, Align: entity.AlignCenter, Color: "#1f1f1f"},
			{Key: certificate.FieldCodigo, X: 150, Y: 280, FontSize: 8},
		},
	}
}

func TestTemplateGet_PorDefecto(t *testing.T) {
	e := newEnv(t)
	tenant := e.createTenant(t)
	tpl := newTemplates(e, &stubRenderer{})

	got, err := tpl.Get(context.Background(), tenant.Company.ID)
	require.NoError(t, err)

	assert.True(t, got.IsDefault)
	assert.Equal(t, entity.OrientationHorizontal, got.Orientation)
	assert.True(t, got.ShowQR)
	assert.False(t, got.HasBackground)
	assert.NotEmpty(t, got.Fields)
}

func TestTemplateSave(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tenant := e.createTenant(t)
	tpl := newTemplates(e, &stubRenderer{})

	saved, err := tpl.Save(ctx, tenant.Company.ID, layoutRequest())
	require.NoError(t, err)
	assert.False(t, saved.IsDefault)
	assert.Equal(t, "times", saved.FontFamily)
	require.Len(t, saved.Fields, 2)
	assert.Equal(t, "#1F1F1F", saved.Fields[0].Color)
	assert.Equal(t, entity.AlignLeft, saved.Fields[1].Align, "alineación vacía queda a la izquierda")

	got, err := tpl.Get(ctx, tenant.Company.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)
	assert.Equal(t, entity.OrientationVertical, got.Orientation)
}

func TestTemplateSave_Validacion(t *testing.T) {
	e := newEnv(t)
	tenant := e.createTenant(t)
	tpl := newTemplates(e, &stubRenderer{})

	tests := []struct {
		name   string
		modify func(*dto.SaveTemplateRequest)
	}{
		{"orientación", func(r *dto.SaveTemplateRequest) { r.Orientation = "diagonal" }},
		{"QR fuera de la página", func(r *dto.SaveTemplateRequest) { r.QRY = 280 }},
		{"QR muy pequeño", func(r *dto.SaveTemplateRequest) { r.QRSize = 5 }},
		{"campo repetido", func(r *dto.SaveTemplateRequest) { r.Fields[1].Key = certificate.FieldNombre }},
		{"fuente fuera de rango", func(r *dto.SaveTemplateRequest) { r.Fields[0].FontSize = 120 }},
		{"color inválido", func(r *dto.SaveTemplateRequest) { r.Fields[0].Color = "rojo" }},
		{"campo fuera de la página", func(r *dto.SaveTemplateRequest) { r.Fields[0].X = 250 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := layoutRequest()
			tt.modify(&req)
			_, err := tpl.Save(context.Background(), tenant.Company.ID, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestTemplateFondo_SeConservaAlGuardar(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tenant := e.createTenant(t)
	tpl := newTemplates(e, &stubRenderer{})

	_, err := tpl.UploadBackground(ctx, tenant.Company.ID, []byte("GIF89a"))
	assert.ErrorIs(t, err, domain.ErrInvalidFile)

	withBg, err := tpl.UploadBackground(ctx, tenant.Company.ID, pngBytes(t))
	require.NoError(t, err)
	assert.True(t, withBg.HasBackground)

	saved, err := tpl.Save(ctx, tenant.Company.ID, layoutRequest())
	require.NoError(t, err)
	assert.True(t, saved.HasBackground)

	removed, err := tpl.DeleteBackground(ctx, tenant.Company.ID)
	require.NoError(t, err)
	assert.False(t, removed.HasBackground)
	_, err = e.storage.Read(ctx, "companies/"+tenant.Company.ID+"/assets/fondo.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTemplatePreview(t *testing.T) {
	e := newEnv(t)
	tenant := e.createTenant(t)
	r := &stubRenderer{}
	tpl := newTemplates(e, r)

	pdf, err := tpl.Preview(context.Background(), tenant.Company.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
	assert.Equal(t, "Nombre del Participante", r.last.Values[certificate.FieldNombre])

	_, err = tpl.Preview(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssets_FirmasYLogos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tenant := e.createTenant(t)
	companyID := tenant.Company.ID
	assets := usecase.NewAssetUseCase(e.repos.Signatures, e.repos.Logos, e.storage, zerolog.Nop())
	img := pngBytes(t)

	sig, err := assets.CreateSignature(ctx, companyID, dto.CreateSignatureRequest{
		SignerName: " Carlos Ruiz ", SignerTitle: "Director académico",
		AssetPlacement: dto.AssetPlacement{X: 40, Y: 160, Width: 50},
	}, img)
	require.NoError(t, err)
	assert.Equal(t, "Carlos Ruiz", sig.SignerName)
	assert.True(t, sig.IsActive)

	off, err := assets.ToggleSignature(ctx, companyID, sig.ID, false)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	_, err = assets.ToggleSignature(ctx, "otra-empresa", sig.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	logo, err := assets.CreateLogo(ctx, companyID, dto.CreateLogoRequest{
		Name: "Aliado", AssetPlacement: dto.AssetPlacement{X: 10, Y: 10, Width: 30},
	}, img)
	require.NoError(t, err)
	logos, err := assets.ListLogos(ctx, companyID)
	require.NoError(t, err)
	assert.Len(t, logos, 1)

	require.NoError(t, assets.DeleteSignature(ctx, companyID, sig.ID))
	require.NoError(t, assets.DeleteLogo(ctx, companyID, logo.ID))
	sigs, err := assets.ListSignatures(ctx, companyID)
	require.NoError(t, err)
	assert.Empty(t, sigs)
	assert.ErrorIs(t, assets.DeleteLogo(ctx, companyID, logo.ID), domain.ErrNotFound)
}

// undeletableStorage guarda y lee normalmente pero no puede borrar.
type undeletableStorage struct{ *storage.FileStorage }

func (undeletableStorage) Delete(context.Context, string) error {
	return errors.New("permiso denegado")
}

func TestAssets_BorradoFallidoSeRegistra(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tenant := e.createTenant(t)
	var logs bytes.Buffer
	assets := usecase.NewAssetUseCase(e.repos.Signatures, e.repos.Logos, undeletableStorage{e.storage}, zerolog.New(&logs))

	sig, err := assets.CreateSignature(ctx, tenant.Company.ID, dto.CreateSignatureRequest{
		SignerName: "Carlos Ruiz", AssetPlacement: dto.AssetPlacement{X: 40, Y: 160, Width: 50},
	}, pngBytes(t))
	require.NoError(t, err)

	require.NoError(t, assets.DeleteSignature(ctx, tenant.Company.ID, sig.ID), "el registro se borra aunque el archivo quede")
	assert.Contains(t, logs.String(), "permiso denegado")
	assert.Contains(t, logs.String(), `"level":"warn"`)
}

func TestAssets_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tenant := e.createTenant(t)
	assets := usecase.NewAssetUseCase(e.repos.Signatures, e.repos.Logos, e.storage, zerolog.Nop())
	img := pngBytes(t)
	place := dto.AssetPlacement{X: 40, Y: 160, Width: 50}

	_, err := assets.CreateSignature(ctx, tenant.Company.ID, dto.CreateSignatureRequest{AssetPlacement: place}, img)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin nombre de quien firma")

	_, err = assets.CreateSignature(ctx, tenant.Company.ID, dto.CreateSignatureRequest{
		SignerName: "Ana", AssetPlacement: dto.AssetPlacement{X: 40, Y: 160, Width: 0},
	}, img)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = assets.CreateSignature(ctx, tenant.Company.ID, dto.CreateSignatureRequest{
		SignerName: "Ana", AssetPlacement: dto.AssetPlacement{X: -1, Y: 160, Width: 50},
	}, img)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = assets.CreateSignature(ctx, tenant.Company.ID, dto.CreateSignatureRequest{SignerName: "Ana", AssetPlacement: place}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidFile)

	_, err = assets.CreateLogo(ctx, tenant.Company.ID, dto.CreateLogoRequest{Name: "x", AssetPlacement: place}, make([]byte, usecase.MaxImageSize+1))
	assert.ErrorIs(t, err, domain.ErrTooLarge)
}

func TestTextImprove(t *testing.T) {
	text := usecase.NewTextUseCase()

	got := text.Improve(dto.ImproveTextRequest{Text: "  el estudiante asistio a la capacitacion  "})

	assert.Equal(t, "El estudiante asistió a la capacitación", got.Text)
	assert.Equal(t, []dto.TextChange{{From: "asistio", To: "asistió"}, {From: "capacitacion", To: "capacitación"}}, got.Changes)

	long := text.Improve(dto.ImproveTextRequest{Text: strings.Repeat("ñ", usecase.MaxTextLen+50)})
	assert.Equal(t, usecase.MaxTextLen, len([]rune(long.Text)))
	assert.Empty(t, long.Changes)
}
