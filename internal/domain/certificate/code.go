// Package certificate contiene las reglas puras de la emisión de certificados:
// códigos de validación, cupo del plan, diccionario de mejora de texto y
// resolución de los valores que pinta la plantilla.
package certificate

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// CodePrefix prefijo de todos los códigos públicos de validación.
const CodePrefix = "VX"

// codeAlphabet excluye caracteres ambiguos al leer un certificado impreso (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeGroups, codeGroupLen = 2, 4

// NewCode genera un código aleatorio con formato VX-XXXX-XXXX.
// La unicidad se verifica contra la base de datos en la capa de aplicación.
func NewCode() (string, error) {
	buf := make([]byte, codeGroups*codeGroupLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("certificate: generar código: %w", err)
	}
	var b strings.Builder
	b.WriteString(CodePrefix)
	for i, v := range buf {
		if i%codeGroupLen == 0 {
			b.WriteByte('-')
		}
		// 256 es múltiplo de 32: el módulo no introduce sesgo.
		b.WriteByte(codeAlphabet[int(v)%len(codeAlphabet)])
	}
	return b.String(), nil
}

// NormalizeCode pasa a mayúsculas y quita espacios alrededor.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidCode informa si s (ya normalizado) tiene el formato VX-XXXX-XXXX con el alfabeto válido.
func ValidCode(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != codeGroups+1 || parts[0] != CodePrefix {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != codeGroupLen {
			return false
		}
		for _, r := range p {
			if !strings.ContainsRune(codeAlphabet, r) {
				return false
			}
		}
	}
	return true
}
