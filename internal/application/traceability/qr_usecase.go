package traceability

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/lotetracker/internal/application/ports"
	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/payload"
)

// DefaultQRSize lado en píxeles del PNG del código QR.
const DefaultQRSize = 512

// QRUseCase une el registro con el códec del payload y los adaptadores de salida
// (render PNG, etiqueta PDF, exportación).
type QRUseCase struct {
	registry        *LotRegistry
	resolverBaseURL string
	renderer        ports.QRRenderer
	labels          ports.LabelGenerator
	sink            ports.ArtifactSink
	now             func() time.Time
}

// NewQRUseCase construye el caso de uso. renderer, labels y sink pueden ser nil si
// el despliegue no ofrece esas salidas; las operaciones afectadas devuelven error.
func NewQRUseCase(
	registry *LotRegistry,
	resolverBaseURL string,
	renderer ports.QRRenderer,
	labels ports.LabelGenerator,
	sink ports.ArtifactSink,
) *QRUseCase {
	return &QRUseCase{
		registry:        registry,
		resolverBaseURL: resolverBaseURL,
		renderer:        renderer,
		labels:          labels,
		sink:            sink,
		now:             time.Now,
	}
}

// RegisterAndEncode flujo completo de registro: índice → lote → payload.
// Si falta la URL del resolvedor el lote queda registrado y se devuelve junto con
// domain.ErrMissingResolverURL para que el llamador informe el error de configuración.
func (uc *QRUseCase) RegisterAndEncode(ctx context.Context, in RegisterInput) (*entity.Lot, string, error) {
	lot, err := uc.registry.Register(ctx, in)
	if err != nil {
		return nil, "", err
	}
	text, err := payload.Encode(lot, uc.resolverBaseURL)
	if err != nil {
		return lot, "", err
	}
	return lot, text, nil
}

// Payload devuelve el texto del QR de un lote existente.
func (uc *QRUseCase) Payload(ctx context.Context, id string) (*entity.Lot, string, error) {
	lot, err := uc.registry.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if lot == nil {
		return nil, "", domain.ErrNotFound
	}
	text, err := payload.Encode(lot, uc.resolverBaseURL)
	if err != nil {
		return lot, "", err
	}
	return lot, text, nil
}

// RenderPNG genera el PNG del QR y el nombre de archivo convencional.
func (uc *QRUseCase) RenderPNG(ctx context.Context, id string) (png []byte, filename string, err error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("qr: renderizador no configurado")
	}
	lot, text, err := uc.Payload(ctx, id)
	if err != nil {
		return nil, "", err
	}
	png, err = uc.renderer.RenderPNG(text, DefaultQRSize)
	if err != nil {
		return nil, "", fmt.Errorf("qr: render: %w", err)
	}
	return png, payload.ArtifactName(lot.ProductType, uc.now()), nil
}

// Export renderiza el PNG y lo escribe en el destino de artefactos configurado.
func (uc *QRUseCase) Export(ctx context.Context, id string) (name, location string, err error) {
	if uc.sink == nil {
		return "", "", fmt.Errorf("qr: destino de artefactos no configurado")
	}
	png, name, err := uc.RenderPNG(ctx, id)
	if err != nil {
		return "", "", err
	}
	location, err = uc.sink.Put(ctx, name, "image/png", png)
	if err != nil {
		return "", "", fmt.Errorf("qr: exportar %s: %w", name, err)
	}
	return name, location, nil
}

// Label genera la etiqueta PDF imprimible del lote.
func (uc *QRUseCase) Label(ctx context.Context, id string) (pdf []byte, filename string, err error) {
	if uc.labels == nil {
		return nil, "", fmt.Errorf("etiqueta: generador no configurado")
	}
	lot, text, err := uc.Payload(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err = uc.labels.GenerateLotLabel(ctx, lot, text)
	if err != nil {
		return nil, "", fmt.Errorf("etiqueta: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("lote_%s.pdf", lot.ID), nil
}
