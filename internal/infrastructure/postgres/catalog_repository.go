package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo conjuntos de productos y proveedores (name UNIQUE).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador del índice de valores.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// Upsert agrega el nombre si no existe; un duplicado no es error.
func (r *CatalogRepo) Upsert(ctx context.Context, kind entity.CatalogKind, name string) error {
	table, err := catalogTable(kind)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `INSERT INTO `+table+` (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

// List devuelve los nombres en orden de inserción.
func (r *CatalogRepo) List(ctx context.Context, kind entity.CatalogKind) ([]string, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, `SELECT name FROM `+table+` ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
