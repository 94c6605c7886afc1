package dto

import "time"

// GenerateBatchRequest campos del formulario multipart de POST /api/lotes (el archivo viaja aparte).
type GenerateBatchRequest struct {
	Name     string            `form:"nombre"`
	Mapping  map[string]string `form:"mapeo"` // campo del certificado → encabezado del Excel
	Course   string            `form:"curso"` // valor por defecto si la columna no se mapea
	Date     string            `form:"fecha"`
	Hours    string            `form:"horas"`
	Notify   bool              `form:"notificar"`
	Filename string            `form:"-"`
}

// RowErrorResponse error de una fila del Excel.
type RowErrorResponse struct {
	Row     int    `json:"row"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	SourceFilename string             `json:"source_filename"`
	TotalRows      int                `json:"total_rows"`
	Generated      int                `json:"generated"`
	Failed         int                `json:"failed"`
	Status         string             `json:"status"`
	CreatedBy      string             `json:"created_by"`
	Errors         []RowErrorResponse `json:"errors"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// GenerateBatchResponse lote generado y, si se pidió, el resultado de los correos.
type GenerateBatchResponse struct {
	Batch         BatchResponse `json:"batch"`
	Notifications *SendResult   `json:"notifications,omitempty"`
	Usage         UsageResponse `json:"usage"`
}

// BatchListResponse lista paginada de lotes.
type BatchListResponse struct {
	Items []BatchResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
