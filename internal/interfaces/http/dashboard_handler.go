package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/usecase"
)

// DashboardHandler panel del tenant y mejora de textos.
type DashboardHandler struct {
	uc   *usecase.DashboardUseCase
	text *usecase.TextUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase, text *usecase.TextUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, text: text}
}

// Get devuelve totales, consumo del cupo y últimos lotes.
// GET /api/dashboard
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ImproveText POST /api/texto/mejorar
func (h *DashboardHandler) ImproveText(c *fiber.Ctx) error {
	var in dto.ImproveTextRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(in.Text) == "" {
		return validationError(c, "texto es requerido")
	}
	return c.JSON(h.text.Improve(in))
}
