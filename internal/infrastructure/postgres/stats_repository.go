package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de solo lectura para el dashboard.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador de estadísticas.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// CountLots total de lotes registrados.
func (r *StatsRepo) CountLots(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM lots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("stats.CountLots: %w", err)
	}
	return n, nil
}

// StockByProduct suma remaining_quantity agrupando por producto. El orden final lo fija
// la capa de aplicación, no la collation de la base.
func (r *StatsRepo) StockByProduct(ctx context.Context) ([]entity.ProductStock, error) {
	const query = `
	SELECT product_type,
	       COALESCE(SUM(remaining_quantity), 0) AS total
	FROM lots
	GROUP BY product_type`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats.StockByProduct: %w", err)
	}
	defer rows.Close()

	var out []entity.ProductStock
	for rows.Next() {
		var row entity.ProductStock
		if err := rows.Scan(&row.ProductType, &row.Remaining); err != nil {
			return nil, fmt.Errorf("stats.StockByProduct scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
