package certificates

import (
	"fmt"
	"strings"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
	"github.com/jhoicas/vaxa-api/pkg/textnorm"
)

// synonyms encabezados conocidos por campo, ya plegados con textnorm.Fold.
var synonyms = map[string][]string{
	certificate.FieldNombre:    {"nombre", "nombres", "nombre completo", "nombres y apellidos", "participante", "estudiante", "asistente", "name", "full name"},
	certificate.FieldDocumento: {"documento", "cedula", "identificacion", "numero de documento", "no documento", "doc", "dni", "cc", "id"},
	certificate.FieldEmail:     {"email", "e-mail", "correo", "correo electronico", "mail"},
	certificate.FieldCurso:     {"curso", "capacitacion", "programa", "taller", "evento", "diplomado", "course"},
	certificate.FieldFecha:     {"fecha", "fecha de emision", "fecha emision", "fecha de certificacion", "date"},
	certificate.FieldHoras:     {"horas", "intensidad", "intensidad horaria", "duracion", "hours"},
}

// SuggestMapping propone campo → encabezado comparando los encabezados con los sinónimos.
// Primero coincidencias exactas, luego encabezados que contienen el sinónimo.
// Un encabezado se asigna a un solo campo.
func SuggestMapping(headers []string) map[string]string {
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = textnorm.Fold(h)
	}
	mapping := make(map[string]string)
	used := make(map[int]bool)

	match := func(exact bool) {
		for _, field := range certificate.MappableFields {
			if _, ok := mapping[field]; ok {
				continue
			}
		search:
			for _, syn := range synonyms[field] {
				for i, h := range folded {
					if used[i] {
						continue
					}
					if (exact && h == syn) || (!exact && len(syn) > 3 && strings.Contains(h, syn)) {
						mapping[field] = headers[i]
						used[i] = true
						break search
					}
				}
			}
		}
	}
	match(true)
	match(false)
	return mapping
}

// ValidateMapping exige el campo nombre y que cada encabezado exista en el Excel.
func ValidateMapping(mapping map[string]string, headers []string) error {
	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[h] = true
	}
	if strings.TrimSpace(mapping[certificate.FieldNombre]) == "" {
		return fmt.Errorf("%w: el mapeo debe incluir la columna del nombre", domain.ErrInvalidInput)
	}
	for field, header := range mapping {
		if !certificate.IsMappable(field) {
			return fmt.Errorf("%w: campo %q no se puede mapear", domain.ErrInvalidInput, field)
		}
		if header == "" {
			continue
		}
		if !known[header] {
			return fmt.Errorf("%w: la columna %q no existe en el archivo", domain.ErrInvalidInput, header)
		}
	}
	return nil
}

// dataKey clave de DatoCertificado para una columna no mapeada: "Ciudad de Origen" → "ciudad_de_origen".
func dataKey(header string) string {
	return textnorm.FileStem(header)
}
