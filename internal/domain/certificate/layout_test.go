package certificate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

func TestDefaultTemplate_EsValida(t *testing.T) {
	tpl := certificate.DefaultTemplate("c1")
	require.NoError(t, certificate.ValidateTemplate(tpl))
	assert.Equal(t, "c1", tpl.CompanyID)
	assert.True(t, tpl.ShowQR)
}

func TestValidateTemplate_Errores(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*entity.TemplateConfig)
	}{
		{"orientación", func(t *entity.TemplateConfig) { t.Orientation = "diagonal" }},
		{"campo fuera de página", func(t *entity.TemplateConfig) { t.Fields[0].X = 400 }},
		{"fuente muy pequeña", func(t *entity.TemplateConfig) { t.Fields[0].FontSize = 2 }},
		{"fuente muy grande", func(t *entity.TemplateConfig) { t.Fields[0].FontSize = 120 }},
		{"clave repetida", func(t *entity.TemplateConfig) { t.Fields[1].Key = t.Fields[0].Key }},
		{"clave vacía", func(t *entity.TemplateConfig) { t.Fields[0].Key = " " }},
		{"alineación", func(t *entity.TemplateConfig) { t.Fields[0].Align = "justify" }},
		{"color", func(t *entity.TemplateConfig) { t.Fields[0].Color = "rojo" }},
		{"qr fuera", func(t *entity.TemplateConfig) { t.QRX = 280 }},
		{"vertical con campo horizontal", func(t *entity.TemplateConfig) {
			t.Orientation = entity.OrientationVertical
			t.QRX = 10
			t.Fields[5].X = 250
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tpl := certificate.DefaultTemplate("c1")
			tc.mutate(tpl)
			assert.ErrorIs(t, certificate.ValidateTemplate(tpl), domain.ErrInvalidInput)
		})
	}
}

func TestValidHexColor(t *testing.T) {
	assert.True(t, certificate.ValidHexColor("#00aaFF"))
	assert.False(t, certificate.ValidHexColor("00AAFF"))
	assert.False(t, certificate.ValidHexColor("#00AAFG"))
}

func TestFieldValues(t *testing.T) {
	cert := &entity.Certificate{
		Code:            "VX-ABCD-2345",
		ParticipantName: "Ana Gómez",
		DocumentID:      "1020",
		Course:          "Excel avanzado",
		IssueDate:       "15/01/2024",
		Hours:           "20",
	}

	t.Run("texto por defecto con placeholders", func(t *testing.T) {
		v := certificate.FieldValues(cert, nil, "Acme", "")
		assert.Equal(t, "Ana Gómez", v[certificate.FieldNombre])
		assert.Equal(t, "Acme", v[certificate.FieldEmpresa])
		assert.Equal(t, "VX-ABCD-2345", v[certificate.FieldCodigo])
		assert.Equal(t, "Por su participación en Excel avanzado, con una intensidad de 20 horas.", v[certificate.FieldTexto])
	})

	t.Run("datos extra sobrescriben", func(t *testing.T) {
		data := []entity.CertificateData{
			{Key: certificate.FieldNombre, Value: "Ana María Gómez"},
			{Key: "ciudad", Value: "Bogotá"},
		}
		v := certificate.FieldValues(cert, data, "Acme", "Otorgado a {nombre} en {ciudad}.")
		assert.Equal(t, "Ana María Gómez", v[certificate.FieldNombre])
		assert.Equal(t, "Otorgado a Ana María Gómez en Bogotá.", v[certificate.FieldTexto])
	})

	t.Run("código y empresa no se sobrescriben", func(t *testing.T) {
		data := []entity.CertificateData{
			{Key: certificate.FieldCodigo, Value: "CURSO-101"},
			{Key: certificate.FieldEmpresa, Value: "Otra SAS"},
			{Key: "dato_codigo", Value: "CURSO-101"},
		}
		v := certificate.FieldValues(cert, data, "Acme", "Código {codigo} de {empresa}, curso {dato_codigo}.")
		assert.Equal(t, "VX-ABCD-2345", v[certificate.FieldCodigo])
		assert.Equal(t, "Acme", v[certificate.FieldEmpresa])
		assert.Equal(t, "Código VX-ABCD-2345 de Acme, curso CURSO-101.", v[certificate.FieldTexto])
	})
}

func TestDataKey(t *testing.T) {
	assert.Equal(t, "dato_codigo", certificate.DataKey(certificate.FieldCodigo))
	assert.Equal(t, "dato_empresa", certificate.DataKey(certificate.FieldEmpresa))
	assert.Equal(t, "ciudad", certificate.DataKey("ciudad"))
	assert.Equal(t, certificate.FieldNombre, certificate.DataKey(certificate.FieldNombre))
}

func TestFillPlaceholders(t *testing.T) {
	vals := map[string]string{"a": "uno"}
	assert.Equal(t, "uno y", certificate.FillPlaceholders("{a} y {desconocida}", vals))
	assert.Equal(t, "abierto {a", certificate.FillPlaceholders("abierto {a", vals))
}
