package repository

import (
	"context"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

// StatsRepository consultas de solo lectura para el dashboard de trazabilidad.
// Las implementaciones no modifican datos ni cachean resultados.
type StatsRepository interface {
	// CountLots cuenta todos los lotes registrados.
	CountLots(ctx context.Context) (int, error)

	// StockByProduct agrupa por ProductType sumando RemainingQuantity.
	// El orden final lo fija el caso de uso; el adaptador puede devolverlo en cualquier orden.
	StockByProduct(ctx context.Context) ([]entity.ProductStock, error)
}
