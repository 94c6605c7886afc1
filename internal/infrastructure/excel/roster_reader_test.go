package excel_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/excel"
)

// workbook arma un .xlsx en memoria con las filas dadas desde A1.
func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestRosterReader_Normaliza(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{},
		{" Nombre ", "Documento", "Fecha de emisión", "", "Nombre"},
		{"  Ana Gómez ", 1020304050, 45306, "x", "dup"},
		{},
		{"Luis Pérez", "", "2024-02-01"},
	})

	roster, err := excel.NewRosterReader().Read(context.Background(), buf)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", roster.Sheet)
	assert.Equal(t, []string{"Nombre", "Documento", "Fecha de emisión", "Columna 4", "Nombre (2)"}, roster.Headers)
	require.Len(t, roster.Rows, 2)
	assert.Equal(t, []string{"Ana Gómez", "1020304050", "15/01/2024", "x", "dup"}, roster.Rows[0])
	assert.Equal(t, []string{"Luis Pérez", "", "01/02/2024", "", ""}, roster.Rows[1])
	assert.Equal(t, []int{3, 5}, roster.RowNumbers, "filas de la hoja, contando las vacías")
	assert.Equal(t, 5, roster.RowNumber(1))
}

func TestRosterReader_NumerosFueraDeColumnasFecha(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Nombre", "Horas"},
		{"Ana", 40},
	})
	roster, err := excel.NewRosterReader().Read(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, "40", roster.Rows[0][1])
}

func TestRosterReader_Errores(t *testing.T) {
	t.Run("no es excel", func(t *testing.T) {
		_, err := excel.NewRosterReader().Read(context.Background(), strings.NewReader("nombre,documento\nAna,1"))
		assert.ErrorIs(t, err, domain.ErrInvalidFile)
	})

	t.Run("hoja vacía", func(t *testing.T) {
		_, err := excel.NewRosterReader().Read(context.Background(), workbook(t, nil))
		assert.ErrorIs(t, err, domain.ErrInvalidFile)
	})

	t.Run("solo encabezados", func(t *testing.T) {
		_, err := excel.NewRosterReader().Read(context.Background(), workbook(t, [][]interface{}{{"Nombre", "Curso"}}))
		assert.ErrorIs(t, err, domain.ErrInvalidFile)
	})
}
