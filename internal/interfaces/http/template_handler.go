package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/usecase"
)

// TemplateHandler plantilla del certificado.
type TemplateHandler struct {
	uc *usecase.TemplateUseCase
}

// NewTemplateHandler construye el handler.
func NewTemplateHandler(uc *usecase.TemplateUseCase) *TemplateHandler {
	return &TemplateHandler{uc: uc}
}

// Get GET /api/plantilla
func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Save PUT /api/plantilla
func (h *TemplateHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Save(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UploadBackground POST /api/plantilla/fondo (multipart "imagen").
func (h *TemplateHandler) UploadBackground(c *fiber.Ctx) error {
	data, _, err := readUpload(c, "imagen", maxImageSize)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UploadBackground(c.UserContext(), GetCompanyID(c), data)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteBackground DELETE /api/plantilla/fondo
func (h *TemplateHandler) DeleteBackground(c *fiber.Ctx) error {
	out, err := h.uc.DeleteBackground(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Preview GET /api/plantilla/preview: PDF de muestra.
func (h *TemplateHandler) Preview(c *fiber.Ctx) error {
	pdf, err := h.uc.Preview(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="vista_previa.pdf"`)
	return c.Send(pdf)
}
