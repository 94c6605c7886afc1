package entity

import "time"

// Estados de un lote.
const (
	BatchStatusProcessing          = "processing"
	BatchStatusCompleted           = "completed"
	BatchStatusCompletedWithErrors = "completed_with_errors"
	BatchStatusFailed              = "failed"
)

// Batch (lote) agrupa los certificados generados desde una misma carga de Excel.
type Batch struct {
	ID             string
	CompanyID      string
	Name           string
	SourceFilename string
	TotalRows      int
	Generated      int
	Failed         int
	Status         string
	CreatedBy      string
	Errors         []RowError
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RowError describe por qué falló una fila del Excel (Row es la fila de la hoja, como la ve el usuario en Excel).
type RowError struct {
	Row     int    `json:"row"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// Finish fija el estado final según los contadores.
func (b *Batch) Finish(now time.Time) {
	switch {
	case b.Generated == 0 && b.TotalRows > 0:
		b.Status = BatchStatusFailed
	case b.Failed > 0:
		b.Status = BatchStatusCompletedWithErrors
	default:
		b.Status = BatchStatusCompleted
	}
	b.UpdatedAt = now
}
