// Package textnorm normaliza textos en español: quita tildes, arma slugs de
// empresa y nombres de archivo seguros, y compara encabezados de Excel.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLen = 60

// RemoveAccents elimina diacríticos: "Capacitación Ñandú" → "Capacitacion Nandu".
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold deja el texto en minúsculas, sin tildes y con espacios colapsados.
// Se usa para comparar encabezados de Excel contra los sinónimos conocidos.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(RemoveAccents(s))), " ")
}

// Slug arma un identificador URL: "Academia Tecnológica S.A.S." → "academia-tecnologica-s-a-s".
func Slug(s string) string {
	return join(s, '-')
}

// FileStem arma la parte base de un nombre de archivo: "José Pérez" → "jose_perez".
func FileStem(s string) string {
	return join(s, '_')
}

func join(s string, sep rune) string {
	var b strings.Builder
	pending := false
	for _, r := range Fold(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteRune(sep)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	out := b.String()
	if len(out) > maxSlugLen {
		out = strings.TrimRight(out[:maxSlugLen], string(sep))
	}
	return out
}

// ValidSlug informa si s ya tiene forma de slug (minúsculas, dígitos y guiones simples).
func ValidSlug(s string) bool {
	if s == "" || len(s) > maxSlugLen {
		return false
	}
	return Slug(s) == s
}
