package dto

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest ?limit=&offset= de los listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage normaliza la página: limit en [1, MaxPageLimit], offset >= 0.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Page arma los metadatos de respuesta; total < 0 lo omite.
func (p PageRequest) Page(total int) PageResponse {
	out := PageResponse{Limit: p.Limit, Offset: p.Offset}
	if total >= 0 {
		out.Total = total
	}
	return out
}

type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de todos los errores HTTP: {"code": "...", "message": "..."}.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
