package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, seq, operator_name, operator_code, product_type, quantity,
	initial_quantity, remaining_quantity, supplier, status, date, created_at`

// LotRepo implementación del puerto LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de persistencia para lotes.
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create inserta el lote. El id (UUID v4), seq y created_at los asigna el almacén.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	id := uuid.NewString()
	query := `
		INSERT INTO lots (id, operator_name, operator_code, product_type, quantity,
			initial_quantity, remaining_quantity, supplier, status, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq, created_at`
	err := r.q.QueryRow(ctx, query,
		id, lot.OperatorName, lot.OperatorCode, lot.ProductType, lot.Quantity,
		lot.InitialQuantity, lot.RemainingQuantity, lot.Supplier, string(lot.Status), lot.Date,
	).Scan(&lot.Seq, &lot.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	lot.ID = id
	return nil
}

// GetByID obtiene un lote. Un id que no es UUID se trata como inexistente.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	lot, err := scanLot(r.q.QueryRow(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1`, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// ListRecent lista los últimos lotes por orden de inserción, el más reciente primero.
func (r *LotRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, `SELECT `+lotColumns+` FROM lots ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Lot, 0, limit)
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

// ListOperatorPairs devuelve (nombre, código) de todos los lotes en orden de inserción.
func (r *LotRepo) ListOperatorPairs(ctx context.Context) ([]entity.OperatorEntry, error) {
	rows, err := r.q.Query(ctx,
		`SELECT operator_name, operator_code FROM lots WHERE operator_name <> '' ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	defer rows.Close()

	var out []entity.OperatorEntry
	for rows.Next() {
		var op entity.OperatorEntry
		if err := rows.Scan(&op.Name, &op.Code); err != nil {
			return nil, fmt.Errorf("scan operator: %w", err)
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var (
		l      entity.Lot
		id     uuid.UUID
		status string
	)
	if err := row.Scan(
		&id, &l.Seq, &l.OperatorName, &l.OperatorCode, &l.ProductType, &l.Quantity,
		&l.InitialQuantity, &l.RemainingQuantity, &l.Supplier, &status, &l.Date, &l.CreatedAt,
	); err != nil {
		return nil, err
	}
	l.ID = id.String()
	l.Status = entity.LotStatus(status)
	return &l, nil
}
