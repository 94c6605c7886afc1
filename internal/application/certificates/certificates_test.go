package certificates_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vaxa-api/internal/application/certificates"
	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/archive"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/cache"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/memory"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/metrics"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/storage"
)

// ── Dobles de prueba ──────────────────────────────────────────────────────────

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
}

func (r *fakeRenderer) Render(_ context.Context, in ports.RenderInput) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return []byte("%PDF-1.4 " + strings.Join([]string{
		in.Values[certificate.FieldNombre], in.Values[certificate.FieldCodigo], in.Values[certificate.FieldEmpresa], in.QRContent,
	}, " ")), nil
}

type fakeReader struct{ roster *ports.Roster }

func (f fakeReader) Read(context.Context, io.Reader) (*ports.Roster, error) {
	return f.roster, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []ports.Mail
}

func (m *fakeMailer) Send(_ context.Context, msg ports.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// ── Harness ───────────────────────────────────────────────────────────────────

type harness struct {
	repos    *memory.Repositories
	storage  *storage.FileStorage
	renderer *fakeRenderer
	mailer   *fakeMailer
	company  *entity.Company
	batches  *certificates.BatchUseCase
	certs    *certificates.CertificateUseCase
	zips     *certificates.ZipUseCase
	imports  *certificates.ImportUseCase
}

func validationURL(code string) string { return "https://vaxa.app/validar/" + code }

func newHarness(t *testing.T, limit int, roster *ports.Roster) *harness {
	t.Helper()
	repos := memory.NewRepositories(memory.NewStore())
	fs := storage.New(afero.NewMemMapFs())
	renderer := &fakeRenderer{}
	mailer := &fakeMailer{}
	log := zerolog.Nop()

	company := &entity.Company{
		ID:               "company-1",
		Name:             "Academia Andina",
		Slug:             "academia-andina",
		Email:            "contacto@andina.co",
		Status:           entity.CompanyStatusActive,
		CertificateLimit: limit,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	require.NoError(t, repos.Companies.Create(context.Background(), company))

	composer := certificates.NewComposer(repos.Templates, repos.Signatures, repos.Logos, fs, renderer, validationURL)
	notifier := certificates.NewNotifier(mailer, fs, validationURL, log)
	reader := fakeReader{roster: roster}

	return &harness{
		repos:    repos,
		storage:  fs,
		renderer: renderer,
		mailer:   mailer,
		company:  company,
		batches: certificates.NewBatchUseCase(
			repos.Companies, repos.Batches, repos.Certificates, repos.Tx,
			reader, composer, fs, notifier, metrics.Noop{}, 50, log,
		),
		certs: certificates.NewCertificateUseCase(
			repos.Companies, repos.Certificates, repos.CertData, composer, fs,
			cache.NoopValidationCache{}, notifier, metrics.Noop{}, validationURL, log,
		),
		zips:    certificates.NewZipUseCase(repos.Batches, repos.Certificates, fs, archive.NewZipBuilder()),
		imports: certificates.NewImportUseCase(repos.Companies, reader),
	}
}

func roster(rows ...[]string) *ports.Roster {
	return &ports.Roster{
		Sheet:   "Hoja1",
		Headers: []string{"Nombre completo", "Cédula", "Correo", "Ciudad"},
		Rows:    rows,
	}
}

var defaultMapping = map[string]string{
	certificate.FieldNombre:    "Nombre completo",
	certificate.FieldDocumento: "Cédula",
	certificate.FieldEmail:     "Correo",
}

func (h *harness) generate(t *testing.T, notify bool) *dto.GenerateBatchResponse {
	t.Helper()
	resp, err := h.batches.Generate(context.Background(), certificates.GenerateBatchInput{
		CompanyID: h.company.ID,
		UserID:    "user-1",
		File:      strings.NewReader(""),
		Filename:  "asistentes.xlsx",
		Request: dto.GenerateBatchRequest{
			Name:    "Taller de Seguridad",
			Mapping: defaultMapping,
			Course:  "Seguridad en el trabajo",
			Date:    "15/03/2025",
			Hours:   "8",
			Notify:  notify,
		},
	})
	require.NoError(t, err)
	return resp
}

func (h *harness) batchCerts(t *testing.T, batchID string) []*entity.Certificate {
	t.Helper()
	certs, err := h.repos.Certificates.ListByBatch(context.Background(), batchID)
	require.NoError(t, err)
	return certs
}

func (h *harness) issued(t *testing.T) int {
	t.Helper()
	c, err := h.repos.Companies.GetByID(context.Background(), h.company.ID)
	require.NoError(t, err)
	return c.CertificatesIssued
}

func zipNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

// ── Generación por lotes ──────────────────────────────────────────────────────

func TestGenerate_LoteCompleto(t *testing.T) {
	h := newHarness(t, 10, roster(
		[]string{"Ana Pérez", "1020304050", "ANA@correo.com", "Bogotá"},
		[]string{"Luis Gómez", "99887766", "", "Cali"},
	))

	resp := h.generate(t, false)

	assert.Equal(t, entity.BatchStatusCompleted, resp.Batch.Status)
	assert.Equal(t, 2, resp.Batch.TotalRows)
	assert.Equal(t, 2, resp.Batch.Generated)
	assert.Equal(t, 0, resp.Batch.Failed)
	assert.Empty(t, resp.Batch.Errors)
	assert.Equal(t, dto.UsageResponse{Limit: 10, Issued: 2, Remaining: 8}, resp.Usage)
	assert.Nil(t, resp.Notifications)
	assert.Equal(t, 2, h.issued(t))

	certs := h.batchCerts(t, resp.Batch.ID)
	require.Len(t, certs, 2)
	for _, c := range certs {
		assert.True(t, certificate.ValidCode(c.Code), "código %q", c.Code)
		assert.Equal(t, entity.CertificateStatusActive, c.Status)
		assert.Equal(t, "Seguridad en el trabajo", c.Course, "el curso toma el valor por defecto del formulario")
		assert.Equal(t, "15/03/2025", c.IssueDate)

		pdf, err := h.storage.Read(context.Background(), c.FilePath)
		require.NoError(t, err)
		assert.Contains(t, string(pdf), validationURL(c.Code), "el QR apunta a la URL de validación")

		data, err := h.repos.CertData.ListByCertificate(context.Background(), c.ID)
		require.NoError(t, err)
		require.Len(t, data, 1, "la columna no mapeada se guarda como dato extra")
		assert.Equal(t, "ciudad", data[0].Key)
	}

	got, err := h.certs.List(context.Background(), h.company.ID, dto.CertificateListRequest{Query: "perez"})
	require.NoError(t, err)
	require.Len(t, got.Items, 1, "la búsqueda ignora tildes y mayúsculas")
	assert.Equal(t, "ana@correo.com", got.Items[0].Email)
}

func TestGenerate_CupoInsuficienteNoGeneraNada(t *testing.T) {
	h := newHarness(t, 2, roster(
		[]string{"Ana", "1", "", ""},
		[]string{"Luis", "2", "", ""},
		[]string{"Marta", "3", "", ""},
	))

	_, err := h.batches.Generate(context.Background(), certificates.GenerateBatchInput{
		CompanyID: h.company.ID,
		File:      strings.NewReader(""),
		Filename:  "lista.xlsx",
		Request:   dto.GenerateBatchRequest{Mapping: defaultMapping},
	})

	assert.ErrorIs(t, err, domain.ErrPlanLimitExceeded)
	assert.Equal(t, 0, h.issued(t))
	n, err := h.repos.Batches.CountByCompany(context.Background(), h.company.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "no se crea el lote")
	assert.Zero(t, h.renderer.calls)
}

func TestGenerate_PlanIlimitado(t *testing.T) {
	h := newHarness(t, 0, roster([]string{"Ana", "1", "", ""}))
	resp := h.generate(t, false)
	assert.True(t, resp.Usage.Unlimited)
	assert.Equal(t, certificate.Unlimited, resp.Usage.Remaining)
	assert.Equal(t, 1, resp.Usage.Issued)
}

func TestGenerate_ErrorDeFilaNoDetieneElLote(t *testing.T) {
	h := newHarness(t, 10, roster(
		[]string{"Ana", "1", "", ""},
		[]string{"", "2", "", ""},
		[]string{"Marta", "3", "", ""},
	))

	resp := h.generate(t, false)

	assert.Equal(t, entity.BatchStatusCompletedWithErrors, resp.Batch.Status)
	assert.Equal(t, 2, resp.Batch.Generated)
	assert.Equal(t, 1, resp.Batch.Failed)
	require.Len(t, resp.Batch.Errors, 1)
	assert.Equal(t, 3, resp.Batch.Errors[0].Row, "fila de la hoja con el encabezado en la fila 1")
	assert.Equal(t, 2, h.issued(t), "la fila fallida no consume cupo")

	stored, err := h.batches.Get(context.Background(), h.company.ID, resp.Batch.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Batch.Errors, stored.Errors)
}

func TestGenerate_ColumnasCodigoYEmpresaNoReemplazanLasReales(t *testing.T) {
	h := newHarness(t, 10, &ports.Roster{
		Sheet:   "Hoja1",
		Headers: []string{"Nombre completo", "Cédula", "Código", "Empresa"},
		Rows:    [][]string{{"Ana Pérez", "1020304050", "CURSO-101", "Otra Empresa S.A."}},
	})
	resp := h.generate(t, false)
	require.Equal(t, 1, resp.Batch.Generated)
	cert := h.batchCerts(t, resp.Batch.ID)[0]

	pdf, err := h.storage.Read(context.Background(), cert.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), cert.Code+" Academia Andina")
	assert.NotContains(t, string(pdf), "CURSO-101")
	assert.NotContains(t, string(pdf), "Otra Empresa")

	data, err := h.repos.CertData.ListByCertificate(context.Background(), cert.ID)
	require.NoError(t, err)
	got := map[string]string{}
	for _, d := range data {
		got[d.Key] = d.Value
	}
	assert.Equal(t, map[string]string{"dato_codigo": "CURSO-101", "dato_empresa": "Otra Empresa S.A."}, got)

	updated, err := h.certs.Update(context.Background(), h.company.ID, cert.ID, dto.UpdateCertificateRequest{
		Data: map[string]string{certificate.FieldCodigo: "VX-FALSO"},
	})
	require.NoError(t, err)
	assert.Equal(t, "VX-FALSO", updated.Data["dato_codigo"])
	assert.NotContains(t, updated.Data, certificate.FieldCodigo)

	pdf, err = h.storage.Read(context.Background(), cert.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), cert.Code+" Academia Andina")
	assert.NotContains(t, string(pdf), "VX-FALSO")
}

func TestGenerate_MapeoSinNombre(t *testing.T) {
	h := newHarness(t, 10, roster([]string{"Ana", "1", "", ""}))
	_, err := h.batches.Generate(context.Background(), certificates.GenerateBatchInput{
		CompanyID: h.company.ID,
		File:      strings.NewReader(""),
		Request:   dto.GenerateBatchRequest{Mapping: map[string]string{certificate.FieldDocumento: "Cédula"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate_SuperaMaximoDeFilas(t *testing.T) {
	rows := make([][]string, 51)
	for i := range rows {
		rows[i] = []string{"Persona", "1", "", ""}
	}
	h := newHarness(t, 0, roster(rows...))
	_, err := h.batches.Generate(context.Background(), certificates.GenerateBatchInput{
		CompanyID: h.company.ID,
		File:      strings.NewReader(""),
		Request:   dto.GenerateBatchRequest{Mapping: defaultMapping},
	})
	assert.ErrorIs(t, err, domain.ErrTooLarge)
}

func TestGenerate_NotificaSoloConCorreo(t *testing.T) {
	h := newHarness(t, 10, roster(
		[]string{"Ana", "1", "ana@correo.com", ""},
		[]string{"Luis", "2", "", ""},
	))

	resp := h.generate(t, true)

	require.NotNil(t, resp.Notifications)
	assert.Equal(t, 1, resp.Notifications.Sent)
	assert.Equal(t, 1, resp.Notifications.Skipped)
	require.Len(t, h.mailer.sent, 1)
	msg := h.mailer.sent[0]
	assert.Equal(t, "ana@correo.com", msg.To)
	assert.Equal(t, h.company.Email, msg.ReplyTo)
	require.Len(t, msg.Attachments, 1)
	assert.True(t, strings.HasSuffix(msg.Attachments[0].Filename, ".pdf"))
}

func TestBatch_OtraEmpresa(t *testing.T) {
	h := newHarness(t, 10, roster([]string{"Ana", "1", "", ""}))
	resp := h.generate(t, false)

	_, err := h.batches.Get(context.Background(), "otra-empresa", resp.Batch.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = h.batches.Get(context.Background(), h.company.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Ciclo de vida y validación pública ────────────────────────────────────────

func TestRevocarYReactivar(t *testing.T) {
	h := newHarness(t, 10, roster([]string{"Ana Pérez", "1020304050", "", ""}))
	resp := h.generate(t, false)
	cert := h.batchCerts(t, resp.Batch.ID)[0]
	ctx := context.Background()

	v, err := h.certs.Validate(ctx, strings.ToLower(cert.Code))
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, "******4050", v.DocumentID, "el documento se enmascara")
	assert.Equal(t, "Academia Andina", v.CompanyName)

	_, err = h.certs.Revoke(ctx, h.company.ID, cert.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el motivo es obligatorio")

	revoked, err := h.certs.Revoke(ctx, h.company.ID, cert.ID, "Datos incorrectos")
	require.NoError(t, err)
	assert.Equal(t, entity.CertificateStatusRevoked, revoked.Status)
	require.NotNil(t, revoked.RevokedAt)

	_, err = h.certs.Revoke(ctx, h.company.ID, cert.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrConflict)

	v, err = h.certs.Validate(ctx, cert.Code)
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, "Datos incorrectos", v.RevokeReason)

	_, _, err = h.certs.PublicDownload(ctx, cert.Code)
	assert.ErrorIs(t, err, domain.ErrRevoked)
	_, err = h.certs.Regenerate(ctx, h.company.ID, cert.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = h.certs.Reactivate(ctx, h.company.ID, cert.ID)
	require.NoError(t, err)
	v, err = h.certs.Validate(ctx, cert.Code)
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Empty(t, v.RevokeReason)

	_, err = h.certs.Reactivate(ctx, h.company.ID, cert.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, h.issued(t), "revocar no devuelve cupo")
}

func TestValidate_CodigoInvalidoYDesconocido(t *testing.T) {
	h := newHarness(t, 10, roster())
	_, err := h.certs.Validate(context.Background(), "no-es-un-codigo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	code, err := certificate.NewCode()
	require.NoError(t, err)
	_, err = h.certs.Validate(context.Background(), code)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownload_RegeneraPDFPerdido(t *testing.T) {
	h := newHarness(t, 10, roster([]string{"Ana Pérez", "1", "", ""}))
	resp := h.generate(t, false)
	cert := h.batchCerts(t, resp.Batch.ID)[0]
	ctx := context.Background()

	require.NoError(t, h.storage.Delete(ctx, cert.FilePath))
	pdf, filename, err := h.certs.Download(ctx, h.company.ID, cert.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, "ana_perez_"+cert.Code+".pdf", filename)

	_, err = h.storage.Read(ctx, cert.FilePath)
	assert.NoError(t, err, "el PDF regenerado queda guardado")

	_, _, err = h.certs.Download(ctx, "otra-empresa", cert.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdate_CambiaDatosYRegenera(t *testing.T) {
	h := newHarness(t, 10, roster([]string{"Ana", "1", "", "Bogotá"}))
	resp := h.generate(t, false)
	cert := h.batchCerts(t, resp.Batch.ID)[0]
	before := h.renderer.calls

	name := "Ana María Pérez"
	updated, err := h.certs.Update(context.Background(), h.company.ID, cert.ID, dto.UpdateCertificateRequest{
		ParticipantName: &name,
		Data:            map[string]string{"ciudad": "", "cargo": "Analista"},
	})
	require.NoError(t, err)

	assert.Equal(t, name, updated.ParticipantName)
	assert.Equal(t, map[string]string{"cargo": "Analista"}, updated.Data, "valor vacío elimina la clave")
	assert.Equal(t, before+1, h.renderer.calls)

	pdf, err := h.storage.Read(context.Background(), cert.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), name)

	empty := " "
	_, err = h.certs.Update(context.Background(), h.company.ID, cert.ID, dto.UpdateCertificateRequest{ParticipantName: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── ZIP ───────────────────────────────────────────────────────────────────────

func TestBatchZip_ExcluyeRevocados(t *testing.T) {
	h := newHarness(t, 10, roster(
		[]string{"Ana", "1", "", ""},
		[]string{"Luis", "2", "", ""},
	))
	resp := h.generate(t, false)
	certs := h.batchCerts(t, resp.Batch.ID)
	ctx := context.Background()
	_, err := h.certs.Revoke(ctx, h.company.ID, certs[0].ID, "error de digitación")
	require.NoError(t, err)

	data, name, err := h.zips.BatchZip(ctx, h.company.ID, resp.Batch.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "taller_de_seguridad.zip", name)
	assert.Len(t, zipNames(t, data), 1)

	data, _, err = h.zips.BatchZip(ctx, h.company.ID, resp.Batch.ID, true)
	require.NoError(t, err)
	assert.Len(t, zipNames(t, data), 2)

	_, _, err = h.zips.BatchZip(ctx, "otra-empresa", resp.Batch.ID, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSelectionZip_NombresRepetidos(t *testing.T) {
	h := newHarness(t, 10, roster(
		[]string{"Ana", "1", "", ""},
		[]string{"Luis", "2", "", ""},
	))
	resp := h.generate(t, false)
	certs := h.batchCerts(t, resp.Batch.ID)
	ids := []string{certs[0].ID, certs[1].ID, "ajeno"}

	data, name, err := h.zips.SelectionZip(context.Background(), h.company.ID, ids, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "certificados_"))
	assert.ElementsMatch(t, []string{certificates.PDFFilename(certs[0]), certificates.PDFFilename(certs[1])}, zipNames(t, data))

	_, _, err = h.zips.SelectionZip(context.Background(), h.company.ID, nil, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Vista previa ──────────────────────────────────────────────────────────────

func TestImportPreview(t *testing.T) {
	rows := make([][]string, 12)
	for i := range rows {
		rows[i] = []string{"Persona", "1", "p@correo.com", "Bogotá"}
	}
	h := newHarness(t, 5, roster(rows...))

	got, err := h.imports.Preview(context.Background(), h.company.ID, strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, 12, got.TotalRows)
	assert.Len(t, got.Rows, 10, "la muestra se limita a 10 filas")
	assert.Equal(t, 5, got.Remaining)
	assert.Equal(t, "Nombre completo", got.SuggestedMapping[certificate.FieldNombre])
	assert.Equal(t, "Cédula", got.SuggestedMapping[certificate.FieldDocumento])
	assert.Equal(t, "Correo", got.SuggestedMapping[certificate.FieldEmail])
	_, mapped := got.SuggestedMapping[certificate.FieldCurso]
	assert.False(t, mapped)
}
