package dto

import "time"

// TemplateFieldDTO campo de la plantilla (coordenadas en mm).
type TemplateFieldDTO struct {
	Key      string  `json:"key"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	FontSize float64 `json:"font_size"`
	Bold     bool    `json:"bold"`
	Align    string  `json:"align"`
	Color    string  `json:"color"`
}

// SaveTemplateRequest entrada para guardar la plantilla de la empresa.
type SaveTemplateRequest struct {
	Name        string             `json:"name"`
	Orientation string             `json:"orientation" validate:"required,oneof=horizontal vertical"`
	FontFamily  string             `json:"font_family"`
	BodyText    string             `json:"body_text"`
	ShowQR      bool               `json:"show_qr"`
	QRX         float64            `json:"qr_x"`
	QRY         float64            `json:"qr_y"`
	QRSize      float64            `json:"qr_size"`
	Fields      []TemplateFieldDTO `json:"fields"`
}

// TemplateResponse plantilla vigente; IsDefault indica que la empresa no ha guardado una propia.
type TemplateResponse struct {
	Name          string             `json:"name"`
	Orientation   string             `json:"orientation"`
	FontFamily    string             `json:"font_family"`
	BodyText      string             `json:"body_text"`
	ShowQR        bool               `json:"show_qr"`
	QRX           float64            `json:"qr_x"`
	QRY           float64            `json:"qr_y"`
	QRSize        float64            `json:"qr_size"`
	HasBackground bool               `json:"has_background"`
	Fields        []TemplateFieldDTO `json:"fields"`
	IsDefault     bool               `json:"is_default"`
	UpdatedAt     *time.Time         `json:"updated_at,omitempty"`
}
