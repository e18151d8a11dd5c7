package repository

import (
	"context"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para Lot (DIP).
// Los lotes se crean una vez y nunca se actualizan ni eliminan.
type LotRepository interface {
	// Create persiste el lote y asigna ID, Seq y CreatedAt en la misma estructura.
	Create(ctx context.Context, lot *entity.Lot) error
	// GetByID devuelve (nil, nil) si no existe o si el id no tiene el formato del almacén.
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// ListRecent devuelve los últimos `limit` lotes por orden de inserción, el más reciente primero.
	ListRecent(ctx context.Context, limit int) ([]*entity.Lot, error)
	// ListOperatorPairs devuelve (nombre, código) de cada lote con nombre no vacío, en orden de inserción.
	ListOperatorPairs(ctx context.Context) ([]entity.OperatorEntry, error)
}
