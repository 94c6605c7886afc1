// Package excel lee rosters de participantes desde archivos .xlsx con excelize.
package excel

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/pkg/textnorm"
)

var _ ports.SpreadsheetReader = (*RosterReader)(nil)

// Rango de seriales de Excel que se aceptan como fecha (1900-01-01 a 9999-12-31).
const (
	minDateSerial = 1
	maxDateSerial = 2958465
)

// RosterReader implementa ports.SpreadsheetReader.
type RosterReader struct{}

// NewRosterReader construye el lector.
func NewRosterReader() *RosterReader { return &RosterReader{} }

// Read toma la primera hoja: la primera fila no vacía son los encabezados.
// Limpia espacios, descarta filas vacías, completa filas cortas y convierte
// seriales de fecha a dd/mm/aaaa en columnas cuyo encabezado menciona "fecha" o "date".
func (r *RosterReader) Read(_ context.Context, src io.Reader) (*ports.Roster, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: no es un archivo Excel (.xlsx) válido", domain.ErrInvalidFile)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: el archivo no tiene hojas", domain.ErrInvalidFile)
	}
	sheet := sheets[0]
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: no se pudo leer la hoja %q", domain.ErrInvalidFile, sheet)
	}

	var headers []string
	var rows [][]string
	var numbers []int
	for n, row := range raw {
		cells := trimCells(row)
		if blank(cells) {
			continue
		}
		if headers == nil {
			headers = normalizeHeaders(cells)
			continue
		}
		rows = append(rows, fit(cells, len(headers)))
		numbers = append(numbers, n+1)
	}
	if headers == nil {
		return nil, fmt.Errorf("%w: la hoja %q está vacía", domain.ErrInvalidFile, sheet)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: la hoja %q no tiene filas de datos", domain.ErrInvalidFile, sheet)
	}

	for col, h := range headers {
		if !isDateHeader(h) {
			continue
		}
		for _, row := range rows {
			row[col] = normalizeDate(row[col])
		}
	}
	return &ports.Roster{Sheet: sheet, Headers: headers, Rows: rows, RowNumbers: numbers}, nil
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// fit completa con vacíos o recorta la fila al número de encabezados.
func fit(cells []string, n int) []string {
	if len(cells) >= n {
		return cells[:n]
	}
	return append(cells, make([]string, n-len(cells))...)
}

// normalizeHeaders nombra las columnas sin encabezado y desambigua los repetidos.
// Las columnas vacías al final de la fila se descartan.
func normalizeHeaders(cells []string) []string {
	last := len(cells) - 1
	for last >= 0 && cells[last] == "" {
		last--
	}
	cells = cells[:last+1]

	out := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, h := range cells {
		if h == "" {
			h = "Columna " + strconv.Itoa(i+1)
		}
		key := textnorm.Fold(h)
		seen[key]++
		if n := seen[key]; n > 1 {
			h = fmt.Sprintf("%s (%d)", h, n)
		}
		out[i] = h
	}
	return out
}

func isDateHeader(h string) bool {
	f := textnorm.Fold(h)
	return strings.Contains(f, "fecha") || strings.Contains(f, "date")
}

// normalizeDate convierte seriales de Excel y fechas ISO a dd/mm/aaaa; el resto queda igual.
func normalizeDate(v string) string {
	if v == "" {
		return v
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial < minDateSerial || serial > maxDateSerial {
			return v
		}
		t, err := excelize.ExcelDateToTime(math.Floor(serial), false)
		if err != nil {
			return v
		}
		return t.Format("02/01/2006")
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return v
}
