// Package qr renderiza el payload de un lote como imagen PNG de código QR.
package qr

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/jhoicas/lotetracker/internal/application/ports"
)

var _ ports.QRRenderer = (*Renderer)(nil)

// MinSize lado mínimo en píxeles; por debajo el lector no resuelve los módulos del nivel H.
const MinSize = 128

// Renderer genera PNG con corrección de errores nivel H (el payload lleva texto libre
// y el código suele imprimirse sobre empaques).
type Renderer struct{}

// NewRenderer construye el renderizador.
func NewRenderer() *Renderer { return &Renderer{} }

// RenderPNG codifica payload y escala la matriz a size×size píxeles.
func (r *Renderer) RenderPNG(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("qr: payload vacío")
	}
	if size < MinSize {
		size = MinSize
	}
	code, err := qr.Encode(payload, qr.H, qr.Unicode)
	if err != nil {
		return nil, fmt.Errorf("qr: codificar: %w", err)
	}
	if code.Bounds().Dx() > size {
		size = code.Bounds().Dx()
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("qr: escalar: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("qr: png: %w", err)
	}
	return buf.Bytes(), nil
}
