package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
)

// MaxImageSize tamaño máximo de fondos, firmas y logos.
const MaxImageSize = 5 << 20

// checkImage acepta PNG o JPEG decodificables y devuelve la extensión con punto.
func checkImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: imagen vacía", domain.ErrInvalidFile)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: la imagen supera 5 MB", domain.ErrTooLarge)
	}
	var ext string
	switch http.DetectContentType(data) {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	default:
		return "", fmt.Errorf("%w: solo se aceptan imágenes PNG o JPEG", domain.ErrInvalidFile)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: imagen ilegible: %v", domain.ErrInvalidFile, err)
	}
	return ext, nil
}

// assetPath ruta en el storage de una imagen de la empresa.
func assetPath(companyID, name string) string {
	return "companies/" + companyID + "/assets/" + name
}

// discardFile borra un archivo que ya no referencia ningún registro. Un fallo no
// interrumpe la operación: el archivo queda huérfano y se registra.
func discardFile(ctx context.Context, storage ports.FileStorage, log zerolog.Logger, path string) {
	if err := storage.Delete(ctx, path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("no se pudo borrar el archivo")
	}
}
