package ports

import "context"

// FileStorage guarda archivos binarios (PDFs, imágenes) bajo rutas relativas.
// Read devuelve domain.ErrNotFound si la ruta no existe.
type FileStorage interface {
	Save(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}
