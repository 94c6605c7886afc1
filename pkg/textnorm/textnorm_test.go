package textnorm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/vaxa-api/pkg/textnorm"
)

func TestRemoveAccents(t *testing.T) {
	assert.Equal(t, "Capacitacion Nandu", textnorm.RemoveAccents("Capacitación Ñandú"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "fecha de emision", textnorm.Fold("  Fecha   de EMISIÓN "))
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Academia Tecnológica S.A.S.": "academia-tecnologica-s-a-s",
		"  --Vaxa--  ":                "vaxa",
		"Colegio #12 Año 2024":        "colegio-12-ano-2024",
		"":                            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, textnorm.Slug(in), in)
	}
}

func TestSlug_Truncado(t *testing.T) {
	s := textnorm.Slug(strings.Repeat("abc ", 40))
	assert.LessOrEqual(t, len(s), 60)
	assert.False(t, strings.HasSuffix(s, "-"))
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "jose_perez_gomez", textnorm.FileStem("José Pérez  Gómez"))
}

func TestValidSlug(t *testing.T) {
	assert.True(t, textnorm.ValidSlug("academia-norte"))
	assert.False(t, textnorm.ValidSlug("Academia Norte"))
	assert.False(t, textnorm.ValidSlug("doble--guion"))
	assert.False(t, textnorm.ValidSlug(""))
}
