// Package archive empaqueta PDFs de certificados en archivos ZIP en memoria.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"github.com/jhoicas/vaxa-api/internal/application/ports"
)

var _ ports.ArchiveBuilder = (*ZipBuilder)(nil)

// ZipBuilder implementa ports.ArchiveBuilder.
type ZipBuilder struct{}

// NewZipBuilder construye el builder.
func NewZipBuilder() *ZipBuilder { return &ZipBuilder{} }

// Build crea un ZIP con una entrada por archivo, en el orden recibido.
func (b *ZipBuilder) Build(entries []ports.ArchiveEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	now := time.Now()

	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return nil, fmt.Errorf("zip: escribir %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}
