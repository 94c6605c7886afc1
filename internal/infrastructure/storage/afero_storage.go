// Package storage guarda los archivos de la aplicación (PDFs, fondos, firmas, logos)
// sobre un afero.Fs: disco en producción, memoria en los tests.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
)

var _ ports.FileStorage = (*FileStorage)(nil)

// FileStorage implementa ports.FileStorage con rutas relativas a la raíz del Fs.
type FileStorage struct {
	fs afero.Fs
}

// NewDiskStorage storage en disco bajo dir (se crea si no existe).
func NewDiskStorage(dir string) (*FileStorage, error) {
	base := afero.NewOsFs()
	if err := base.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", dir, err)
	}
	return New(afero.NewBasePathFs(base, dir)), nil
}

// New storage sobre un Fs arbitrario (afero.NewMemMapFs en tests).
func New(fsys afero.Fs) *FileStorage {
	return &FileStorage{fs: fsys}
}

// Save escribe data en p creando los directorios intermedios.
func (s *FileStorage) Save(_ context.Context, p string, data []byte) error {
	clean, err := cleanPath(p)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return fmt.Errorf("storage: crear directorio de %s: %w", clean, err)
	}
	if err := afero.WriteFile(s.fs, clean, data, 0o644); err != nil {
		return fmt.Errorf("storage: escribir %s: %w", clean, err)
	}
	return nil
}

// Read devuelve domain.ErrNotFound si el archivo no existe.
func (s *FileStorage) Read(_ context.Context, p string) ([]byte, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, clean)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage: %s: %w", clean, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: leer %s: %w", clean, err)
	}
	return data, nil
}

// Delete no falla si el archivo ya no existe.
func (s *FileStorage) Delete(_ context.Context, p string) error {
	clean, err := cleanPath(p)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(clean); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: borrar %s: %w", clean, err)
	}
	return nil
}

// cleanPath rechaza rutas vacías, absolutas o que escapan de la raíz.
func cleanPath(p string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	if p == "" || clean == "/" || strings.HasPrefix(p, "/") || strings.Contains(p, "..") {
		return "", fmt.Errorf("%w: ruta de archivo inválida %q", domain.ErrInvalidInput, p)
	}
	return strings.TrimPrefix(clean, "/"), nil
}
