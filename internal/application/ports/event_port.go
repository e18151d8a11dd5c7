package ports

import (
	"context"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

// LotEventPublisher notifica a otros sistemas que un lote fue registrado.
// La publicación es de mejor esfuerzo: un fallo no revierte el registro.
type LotEventPublisher interface {
	PublishLotRegistered(ctx context.Context, lot *entity.Lot) error
}

// LotMetrics contadores del ciclo de vida expuestos en /metrics. Sin etiquetas de texto
// libre: el producto lo escribe el operador y dispararía la cardinalidad.
type LotMetrics interface {
	LotRegistered()
	StoreAvailable(up bool)
	SuggestionServed(category string)
}
