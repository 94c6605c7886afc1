package certificate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Change es un reemplazo aplicado por ImproveText.
type Change struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// dictionary reemplazos de palabra completa (clave en minúsculas).
// Corrige tildes y errores de tipeo frecuentes en textos de certificados.
var dictionary = map[string]string{
	"academico":          "académico",
	"academica":          "académica",
	"administracion":     "administración",
	"ademas":             "además",
	"aprobo":             "aprobó",
	"asi":                "así",
	"asistio":            "asistió",
	"basico":             "básico",
	"basica":             "básica",
	"basicos":            "básicos",
	"capacitacion":       "capacitación",
	"catedra":            "cátedra",
	"cedula":             "cédula",
	"certifca":           "certifica",
	"certifcado":         "certificado",
	"certificdo":         "certificado",
	"certificacion":      "certificación",
	"comunicacion":       "comunicación",
	"coordinacion":       "coordinación",
	"culmino":            "culminó",
	"dia":                "día",
	"dias":               "días",
	"direccion":          "dirección",
	"duracion":           "duración",
	"educacion":          "educación",
	"evaluacion":         "evaluación",
	"exitosamnete":       "exitosamente",
	"finalizo":           "finalizó",
	"formacion":          "formación",
	"gestion":            "gestión",
	"identificacion":     "identificación",
	"informatica":        "informática",
	"innovacion":         "innovación",
	"investigacion":      "investigación",
	"linea":              "línea",
	"logistica":          "logística",
	"modulo":             "módulo",
	"modulos":            "módulos",
	"numero":             "número",
	"organizacion":       "organización",
	"participacion":      "participación",
	"participo":          "participó",
	"practica":           "práctica",
	"presentacion":       "presentación",
	"programacion":       "programación",
	"realizo":            "realizó",
	"reconocimeinto":     "reconocimiento",
	"satisfactoriamnete": "satisfactoriamente",
	"segun":              "según",
	"tambien":            "también",
	"tecnico":            "técnico",
	"tecnica":            "técnica",
	"teorico":            "teórico",
	"teorica":            "teórica",
}

var (
	wordRe        = regexp.MustCompile(`\p{L}+`)
	contractionRe = regexp.MustCompile(`(?i)(^|[^\p{L}])(a|de) el([^\p{L}]|$)`)
	spaceBeforeRe = regexp.MustCompile(`\s+([,.;:!?])`)
	spacesRe      = regexp.MustCompile(`[ \t]+`)
)

// ImproveText aplica el diccionario fijo de correcciones, las contracciones
// "a el"/"de el", limpia espacios y capitaliza el inicio de cada oración.
// Devuelve el texto mejorado y los reemplazos del diccionario aplicados.
func ImproveText(s string) (string, []Change) {
	changes := []Change{}

	out := spacesRe.ReplaceAllString(strings.TrimSpace(s), " ")
	out = spaceBeforeRe.ReplaceAllString(out, "$1")

	out = fixContractions(out, &changes)

	out = wordRe.ReplaceAllStringFunc(out, func(w string) string {
		repl, ok := dictionary[strings.ToLower(w)]
		if !ok {
			return w
		}
		repl = matchCase(w, repl)
		if repl != w {
			changes = append(changes, Change{From: w, To: repl})
		}
		return repl
	})

	return capitalizeSentences(out), changes
}

// fixContractions reemplaza "a el"/"de el" por "al"/"del". Los separadores
// no se consumen: la búsqueda sigue desde el separador final.
func fixContractions(s string, changes *[]Change) string {
	var b strings.Builder
	last, pos := 0, 0
	for pos < len(s) {
		loc := contractionRe.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[4], pos+loc[6]
		m := s[start:end]
		repl := "al"
		if strings.HasPrefix(strings.ToLower(m), "de") {
			repl = "del"
		}
		repl = matchCase(m, repl)
		*changes = append(*changes, Change{From: m, To: repl})
		b.WriteString(s[last:start])
		b.WriteString(repl)
		last, pos = end, end
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// matchCase copia el patrón de mayúsculas de original a repl (todo mayúsculas o inicial mayúscula).
func matchCase(original, repl string) string {
	if isUpperWord(original) && utf8.RuneCountInString(original) > 1 {
		return strings.ToUpper(repl)
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		return upperFirst(repl)
	}
	return repl
}

func isUpperWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// capitalizeSentences pone en mayúscula la primera letra del texto y la que sigue a . ! ?
func capitalizeSentences(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	capNext := true
	for _, r := range s {
		switch {
		case capNext && unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
			capNext = false
		case r == '.' || r == '!' || r == '?':
			b.WriteRune(r)
			capNext = true
		default:
			if capNext && !unicode.IsSpace(r) && !unicode.IsPunct(r) {
				capNext = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
