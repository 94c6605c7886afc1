package http

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vaxa-api/internal/application/certificates"
	"github.com/jhoicas/vaxa-api/internal/application/dto"
)

// BatchHandler importación de Excel, generación masiva y descarga de lotes.
type BatchHandler struct {
	batches *certificates.BatchUseCase
	imports *certificates.ImportUseCase
	zips    *certificates.ZipUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(batches *certificates.BatchUseCase, imports *certificates.ImportUseCase, zips *certificates.ZipUseCase) *BatchHandler {
	return &BatchHandler{batches: batches, imports: imports, zips: zips}
}

// Preview godoc
// @Summary      Vista previa de un Excel
// @Description  Encabezados, hasta 10 filas de muestra y mapeo sugerido.
// @Tags         lotes
// @Accept       multipart/form-data
// @Produce      json
// @Param        archivo  formData  file  true  "archivo .xlsx"
// @Success      200  {object}  dto.ImportPreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/importaciones/preview [post]
func (h *BatchHandler) Preview(c *fiber.Ctx) error {
	data, _, err := readExcel(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.imports.Preview(c.UserContext(), GetCompanyID(c), bytes.NewReader(data))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Generate godoc
// @Summary      Generar certificados desde un Excel
// @Description  Campos multipart: archivo, mapeo (JSON campo→encabezado), nombre, curso, fecha, horas, notificar.
// @Tags         lotes
// @Accept       multipart/form-data
// @Produce      json
// @Success      201  {object}  dto.GenerateBatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse  "PLAN_LIMIT_EXCEEDED"
// @Failure      413  {object}  dto.ErrorResponse
// @Router       /api/lotes [post]
func (h *BatchHandler) Generate(c *fiber.Ctx) error {
	data, filename, err := readExcel(c)
	if err != nil {
		return writeError(c, err)
	}
	req := dto.GenerateBatchRequest{
		Name:     strings.TrimSpace(c.FormValue("nombre")),
		Course:   strings.TrimSpace(c.FormValue("curso")),
		Date:     strings.TrimSpace(c.FormValue("fecha")),
		Hours:    strings.TrimSpace(c.FormValue("horas")),
		Filename: filename,
	}
	if raw := c.FormValue("mapeo"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Mapping); err != nil {
			return validationError(c, "mapeo debe ser un objeto JSON {campo: encabezado}")
		}
	}
	if raw := c.FormValue("notificar"); raw != "" {
		notify, err := strconv.ParseBool(raw)
		if err != nil {
			return validationError(c, "notificar debe ser true o false")
		}
		req.Notify = notify
	}
	out, err := h.batches.Generate(c.UserContext(), certificates.GenerateBatchInput{
		CompanyID: GetCompanyID(c),
		UserID:    GetUserID(c),
		File:      bytes.NewReader(data),
		Filename:  filename,
		Request:   req,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/lotes
func (h *BatchHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return validationError(c, "parámetros de paginación inválidos")
	}
	out, err := h.batches.List(c.UserContext(), GetCompanyID(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get GET /api/lotes/:id (incluye el reporte de errores por fila).
func (h *BatchHandler) Get(c *fiber.Ctx) error {
	out, err := h.batches.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Zip GET /api/lotes/:id/zip?incluir_revocados=true
func (h *BatchHandler) Zip(c *fiber.Ctx) error {
	data, name, err := h.zips.BatchZip(c.UserContext(), GetCompanyID(c), c.Params("id"), c.QueryBool("incluir_revocados"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/zip", name, data)
}

// Send POST /api/lotes/:id/enviar
func (h *BatchHandler) Send(c *fiber.Ctx) error {
	out, err := h.batches.Send(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
