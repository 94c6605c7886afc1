package ports

import (
	"context"
	"io"
)

// Roster contenido normalizado de la primera hoja de un Excel.
// Todas las filas tienen len(Headers) celdas.
type Roster struct {
	Sheet   string
	Headers []string
	Rows    [][]string
	// RowNumbers fila de la hoja (desde 1) de cada elemento de Rows.
	RowNumbers []int
}

// RowNumber fila de la hoja del registro i; sin RowNumbers asume encabezado en la fila 1 y sin huecos.
func (r *Roster) RowNumber(i int) int {
	if i >= 0 && i < len(r.RowNumbers) {
		return r.RowNumbers[i]
	}
	return i + 2
}

// SpreadsheetReader lee un roster de participantes.
// Devuelve domain.ErrInvalidFile si el archivo no es un Excel legible o no tiene datos.
type SpreadsheetReader interface {
	Read(ctx context.Context, r io.Reader) (*Roster, error)
}
