package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/usecase"
)

// AssetHandler firmas digitales y logos.
type AssetHandler struct {
	uc *usecase.AssetUseCase
}

// NewAssetHandler construye el handler.
func NewAssetHandler(uc *usecase.AssetUseCase) *AssetHandler {
	return &AssetHandler{uc: uc}
}

// CreateSignature POST /api/firmas (multipart: imagen, signer_name, signer_title, x, y, width).
func (h *AssetHandler) CreateSignature(c *fiber.Ctx) error {
	var in dto.CreateSignatureRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(in.SignerName) == "" {
		return validationError(c, "signer_name es requerido")
	}
	data, _, err := readUpload(c, "imagen", maxImageSize)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateSignature(c.UserContext(), GetCompanyID(c), in, data)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSignatures GET /api/firmas
func (h *AssetHandler) ListSignatures(c *fiber.Ctx) error {
	out, err := h.uc.ListSignatures(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ToggleSignature PATCH /api/firmas/:id
func (h *AssetHandler) ToggleSignature(c *fiber.Ctx) error {
	var in dto.ToggleAssetRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ToggleSignature(c.UserContext(), GetCompanyID(c), c.Params("id"), in.IsActive)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteSignature DELETE /api/firmas/:id
func (h *AssetHandler) DeleteSignature(c *fiber.Ctx) error {
	if err := h.uc.DeleteSignature(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateLogo POST /api/logos (multipart: imagen, name, x, y, width).
func (h *AssetHandler) CreateLogo(c *fiber.Ctx) error {
	var in dto.CreateLogoRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	data, _, err := readUpload(c, "imagen", maxImageSize)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateLogo(c.UserContext(), GetCompanyID(c), in, data)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLogos GET /api/logos
func (h *AssetHandler) ListLogos(c *fiber.Ctx) error {
	out, err := h.uc.ListLogos(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ToggleLogo PATCH /api/logos/:id
func (h *AssetHandler) ToggleLogo(c *fiber.Ctx) error {
	var in dto.ToggleAssetRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ToggleLogo(c.UserContext(), GetCompanyID(c), c.Params("id"), in.IsActive)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteLogo DELETE /api/logos/:id
func (h *AssetHandler) DeleteLogo(c *fiber.Ctx) error {
	if err := h.uc.DeleteLogo(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
