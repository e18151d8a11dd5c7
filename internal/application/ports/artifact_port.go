package ports

import (
	"context"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

// QRRenderer convierte el texto del payload en una imagen PNG del código QR.
type QRRenderer interface {
	RenderPNG(payload string, size int) ([]byte, error)
}

// LabelGenerator genera la etiqueta imprimible (PDF) de un lote con su QR.
type LabelGenerator interface {
	GenerateLotLabel(ctx context.Context, lot *entity.Lot, payload string) ([]byte, error)
}

// ArtifactSink destino de los artefactos exportados (disco local, S3).
// Devuelve la ubicación final (ruta o URL) del objeto escrito.
type ArtifactSink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}
