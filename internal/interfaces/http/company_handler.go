package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/usecase"
)

// CompanyHandler endpoints de empresas: plataforma, tenant y landing pública.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// ── Plataforma (X-Admin-Key) ──────────────────────────────────────────────────

// Create godoc
// @Summary      Crear empresa con su primer administrador
// @Tags         platform
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "empresa y admin"
// @Success      201   {object}  dto.CreateCompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/platform/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(in.Name) == "" || in.PlanCode == "" || in.AdminEmail == "" || in.AdminPassword == "" {
		return validationError(c, "name, plan_code, admin_email y admin_password son requeridos")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista empresas. GET /api/platform/companies?limit=&offset=
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return validationError(c, "parámetros de paginación inválidos")
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangePlan PUT /api/platform/companies/:id/plan
func (h *CompanyHandler) ChangePlan(c *fiber.Ctx) error {
	var in dto.ChangePlanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.PlanCode == "" {
		return validationError(c, "plan_code es requerido")
	}
	out, err := h.uc.ChangePlan(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ── Tenant ────────────────────────────────────────────────────────────────────

// Current GET /api/empresa
func (h *CompanyHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateBranding PUT /api/empresa
func (h *CompanyHandler) UpdateBranding(c *fiber.Ctx) error {
	var in dto.UpdateBrandingRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateBranding(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UploadLogo POST /api/empresa/logo (multipart "imagen").
func (h *CompanyHandler) UploadLogo(c *fiber.Ctx) error {
	data, _, err := readUpload(c, "imagen", maxImageSize)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UploadBrandLogo(c.UserContext(), GetCompanyID(c), data)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ── Públicos ──────────────────────────────────────────────────────────────────

// Branding GET /api/public/empresas/:slug
func (h *CompanyHandler) Branding(c *fiber.Ctx) error {
	out, err := h.uc.PublicBranding(c.UserContext(), c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Logo GET /api/public/empresas/:slug/logo
func (h *CompanyHandler) Logo(c *fiber.Ctx) error {
	data, err := h.uc.PublicLogo(c.UserContext(), c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	c.Set(fiber.HeaderContentType, imageContentType(data))
	return c.Send(data)
}

// Plans GET /api/public/planes
func (h *CompanyHandler) Plans(c *fiber.Ctx) error {
	out, err := h.uc.Plans(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Contact POST /api/public/contacto
func (h *CompanyHandler) Contact(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Message) == "" {
		return validationError(c, "name, email y message son requeridos")
	}
	if err := h.uc.Contact(c.UserContext(), in); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"ok": true})
}

func imageContentType(data []byte) string {
	if len(data) >= 8 && string(data[1:4]) == "PNG" {
		return "image/png"
	}
	return "image/jpeg"
}
