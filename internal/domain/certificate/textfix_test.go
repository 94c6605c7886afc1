package certificate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
)

func TestImproveText_Diccionario(t *testing.T) {
	out, changes := certificate.ImproveText("el estudiante participo en la capacitacion de  GESTION")

	assert.Equal(t, "El estudiante participó en la capacitación de GESTIÓN", out)
	assert.Equal(t, []certificate.Change{
		{From: "participo", To: "participó"},
		{From: "capacitacion", To: "capacitación"},
		{From: "GESTION", To: "GESTIÓN"},
	}, changes)
}

func TestImproveText_Contracciones(t *testing.T) {
	out, changes := certificate.ImproveText("asistió a el curso de el programa")
	assert.Equal(t, "Asistió al curso del programa", out)
	assert.Len(t, changes, 2)
}

func TestImproveText_ContraccionesJuntoALetrasAcentuadas(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		changes []certificate.Change
	}{
		{"palabra terminada en a tras tilde", "Curso de tecnología el día 5.", "Curso de tecnología el día 5.", []certificate.Change{}},
		{"nombre propio con tilde", "Entregado a María el certificado.", "Entregado a María el certificado.", []certificate.Change{}},
		{"seguidas", "pasó de el a el final", "Pasó del al final", []certificate.Change{
			{From: "de el", To: "del"}, {From: "a el", To: "al"},
		}},
		{"mayúsculas y puntuación", "DE EL programa, a el.", "DEL programa, al.", []certificate.Change{
			{From: "DE EL", To: "DEL"}, {From: "a el", To: "al"},
		}},
		{"tras comillas", "«a el» curso", "«Al» curso", []certificate.Change{{From: "a el", To: "al"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changes := certificate.ImproveText(tt.in)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.changes, changes)
		})
	}
}

func TestImproveText_EspaciosYOraciones(t *testing.T) {
	out, changes := certificate.ImproveText("  curso aprobado .  excelente desempeño , felicitaciones ")
	assert.Equal(t, "Curso aprobado. Excelente desempeño, felicitaciones", out)
	assert.Empty(t, changes)
}

func TestImproveText_Vacio(t *testing.T) {
	out, changes := certificate.ImproveText("   ")
	assert.Equal(t, "", out)
	assert.NotNil(t, changes)
	assert.Empty(t, changes)
}

func TestImproveText_NoTocaNumeros(t *testing.T) {
	out, _ := certificate.ImproveText("duracion de 3.5 horas")
	assert.Equal(t, "Duración de 3.5 horas", out)
}
