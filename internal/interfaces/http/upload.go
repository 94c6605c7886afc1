package http

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vaxa-api/internal/domain"
)

// Tamaños máximos de los archivos subidos.
const (
	maxExcelSize = 10 << 20
	maxImageSize = 5 << 20
)

// readUpload lee el archivo multipart del campo field. Sin archivo → ErrInvalidInput;
// más grande que max → ErrTooLarge.
func readUpload(c *fiber.Ctx, field string, max int64) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("%w: falta el archivo %q", domain.ErrInvalidInput, field)
	}
	if fh.Size > max {
		return nil, "", fmt.Errorf("%w: %s supera %d MB", domain.ErrTooLarge, fh.Filename, max>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("abrir %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, "", fmt.Errorf("leer %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > max {
		return nil, "", fmt.Errorf("%w: %s supera %d MB", domain.ErrTooLarge, fh.Filename, max>>20)
	}
	return data, filepath.Base(fh.Filename), nil
}

// readExcel como readUpload pero exige extensión .xlsx.
func readExcel(c *fiber.Ctx) ([]byte, string, error) {
	data, name, err := readUpload(c, "archivo", maxExcelSize)
	if err != nil {
		return nil, "", err
	}
	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return nil, "", fmt.Errorf("%w: solo se aceptan archivos .xlsx", domain.ErrInvalidFile)
	}
	return data, name, nil
}

// sendFile responde un archivo como descarga.
func sendFile(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
