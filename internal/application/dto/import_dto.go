package dto

// ImportPreviewResponse vista previa de un Excel antes de generar el lote.
type ImportPreviewResponse struct {
	Sheet            string            `json:"sheet"`
	Headers          []string          `json:"headers"`
	Rows             [][]string        `json:"rows"`
	TotalRows        int               `json:"total_rows"`
	SuggestedMapping map[string]string `json:"suggested_mapping"`
	Fields           []string          `json:"fields"`
	Remaining        int               `json:"remaining"` // -1 = ilimitado
}

// ImproveTextRequest texto a mejorar.
type ImproveTextRequest struct {
	Text string `json:"texto" validate:"required"`
}

// TextChange reemplazo aplicado.
type TextChange struct {
	From string `json:"de"`
	To   string `json:"a"`
}

// ImproveTextResponse texto mejorado y reemplazos aplicados.
type ImproveTextResponse struct {
	Text    string       `json:"texto"`
	Changes []TextChange `json:"cambios"`
}
