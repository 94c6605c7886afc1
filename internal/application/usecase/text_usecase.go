package usecase

import (
	"strings"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
)

// MaxTextLen longitud máxima del texto a mejorar.
const MaxTextLen = 2000

// TextUseCase corrige el texto del cuerpo del certificado con el diccionario de estilo.
type TextUseCase struct{}

// NewTextUseCase construye el caso de uso.
func NewTextUseCase() *TextUseCase {
	return &TextUseCase{}
}

// Improve aplica el diccionario. Textos más largos que MaxTextLen se recortan antes.
func (uc *TextUseCase) Improve(in dto.ImproveTextRequest) dto.ImproveTextResponse {
	text := strings.TrimSpace(in.Text)
	if r := []rune(text); len(r) > MaxTextLen {
		text = string(r[:MaxTextLen])
	}
	out, changes := certificate.ImproveText(text)
	resp := dto.ImproveTextResponse{Text: out, Changes: make([]dto.TextChange, 0, len(changes))}
	for _, c := range changes {
		resp.Changes = append(resp.Changes, dto.TextChange{From: c.From, To: c.To})
	}
	return resp
}
