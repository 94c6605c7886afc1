package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vaxa-api/internal/application/certificates"
	"github.com/jhoicas/vaxa-api/internal/application/dto"
)

// CertificateHandler consulta y ciclo de vida de certificados del tenant, más los endpoints públicos.
type CertificateHandler struct {
	uc   *certificates.CertificateUseCase
	zips *certificates.ZipUseCase
}

// NewCertificateHandler construye el handler.
func NewCertificateHandler(uc *certificates.CertificateUseCase, zips *certificates.ZipUseCase) *CertificateHandler {
	return &CertificateHandler{uc: uc, zips: zips}
}

// List godoc
// @Summary      Listar certificados
// @Tags         certificados
// @Produce      json
// @Param        q        query  string  false  "nombre, documento o código"
// @Param        estado   query  string  false  "active | revoked"
// @Param        lote_id  query  string  false  "id del lote"
// @Param        limit    query  int     false  "tamaño de página"
// @Param        offset   query  int     false  "desplazamiento"
// @Success      200  {object}  dto.CertificateListResponse
// @Router       /api/certificados [get]
func (h *CertificateHandler) List(c *fiber.Ctx) error {
	var req dto.CertificateListRequest
	if err := c.QueryParser(&req); err != nil {
		return validationError(c, "parámetros inválidos")
	}
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get GET /api/certificados/:id
func (h *CertificateHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Download GET /api/certificados/:id/pdf
func (h *CertificateHandler) Download(c *fiber.Ctx) error {
	pdf, name, err := h.uc.Download(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", name, pdf)
}

// Update PUT /api/certificados/:id
func (h *CertificateHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCertificateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Regenerate POST /api/certificados/:id/regenerar
func (h *CertificateHandler) Regenerate(c *fiber.Ctx) error {
	out, err := h.uc.Regenerate(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Revoke POST /api/certificados/:id/revocar
func (h *CertificateHandler) Revoke(c *fiber.Ctx) error {
	var in dto.RevokeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return validationError(c, "reason es requerido")
	}
	out, err := h.uc.Revoke(c.UserContext(), GetCompanyID(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reactivate POST /api/certificados/:id/reactivar
func (h *CertificateHandler) Reactivate(c *fiber.Ctx) error {
	out, err := h.uc.Reactivate(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Email POST /api/certificados/:id/enviar
func (h *CertificateHandler) Email(c *fiber.Ctx) error {
	if err := h.uc.Email(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"sent": true})
}

// Zip POST /api/certificados/zip con {ids, incluir_revocados}.
func (h *CertificateHandler) Zip(c *fiber.Ctx) error {
	var in dto.ZipRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if len(in.IDs) == 0 {
		return validationError(c, "ids es requerido")
	}
	data, name, err := h.zips.SelectionZip(c.UserContext(), GetCompanyID(c), in.IDs, in.IncludeRevoked)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/zip", name, data)
}

// ── Públicos ──────────────────────────────────────────────────────────────────

// Validate godoc
// @Summary      Validar un certificado por código
// @Tags         public
// @Produce      json
// @Param        code  path  string  true  "código VX-XXXX-XXXX"
// @Success      200  {object}  dto.ValidationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/public/validar/{code} [get]
func (h *CertificateHandler) Validate(c *fiber.Ctx) error {
	out, err := h.uc.Validate(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PublicDownload GET /api/public/certificados/:code/pdf; 410 si está revocado.
func (h *CertificateHandler) PublicDownload(c *fiber.Ctx) error {
	pdf, name, err := h.uc.PublicDownload(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", name, pdf)
}
