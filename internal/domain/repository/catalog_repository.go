package repository

import (
	"context"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

// CatalogRepository persiste los conjuntos de productos y proveedores (únicos por nombre).
type CatalogRepository interface {
	// Upsert agrega name si no existe; si ya existe no hace nada.
	Upsert(ctx context.Context, kind entity.CatalogKind, name string) error
	// List devuelve los nombres en orden de inserción.
	List(ctx context.Context, kind entity.CatalogKind) ([]string, error)
}
